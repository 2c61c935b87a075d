package codec

import (
	"bytes"
	"encoding/json"
)

// JSON encodes manifests with encoding/json. It reads what GoJSON wrote and
// the other way around.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Marshal(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }

func (JSON) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
