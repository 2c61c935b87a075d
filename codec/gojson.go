package codec

import (
	"bytes"

	gojson "github.com/goccy/go-json"
)

// GoJSON encodes manifests with github.com/goccy/go-json.
type GoJSON struct{}

func (GoJSON) Name() string { return "go-json" }

func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.MarshalIndent(v, "", "  ") }

func (GoJSON) Unmarshal(data []byte, v any) error {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
