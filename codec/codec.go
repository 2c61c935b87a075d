// Package codec encodes the JSON manifests stored next to array chunks.
//
// Manifests are written indented so they stay readable in any blob browser,
// and decoded strictly: a field the reader does not know is an error rather
// than silently dropped.
package codec

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCodec is returned by ByName for names that are not registered.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec encodes and decodes manifest documents.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name is the stable name used in configuration.
	Name() string
	// Marshal encodes v as indented JSON.
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes one JSON document into v. Unknown fields are errors.
	Unmarshal(data []byte, v any) error
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}

var codecs = map[string]Codec{
	JSON{}.Name():   JSON{},
	GoJSON{}.Name(): GoJSON{},
}

// ByName returns the codec registered under name.
func ByName(name string) (Codec, error) {
	if c, ok := codecs[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w %q: use one of %v", ErrUnknownCodec, name, Names())
}

// Names returns the registered codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Encode marshals doc with c. A nil codec selects Default.
func Encode[T any](c Codec, doc *T) ([]byte, error) {
	if c == nil {
		c = Default
	}
	data, err := c.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("codec %s: encode %T: %w", c.Name(), doc, err)
	}
	return data, nil
}

// Decode unmarshals data into a new T with c. A nil codec selects Default.
func Decode[T any](c Codec, data []byte) (*T, error) {
	if c == nil {
		c = Default
	}
	doc := new(T)
	if err := c.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("codec %s: decode %T: %w", c.Name(), doc, err)
	}
	return doc, nil
}
