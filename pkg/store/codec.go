package store

import "encoding/json"

// Codec is the pluggable JSON encoding used for the metadata file. The
// view/list response bodies are encoded by pkg/handler with encoding/json
// directly, not through a Codec.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// jsonCodec is the default Codec, backed by the standard library. Every
// teacher schema type (pkg/filer/schema/*.go, pkg/feed/schema/*.go) is
// marshaled the same way — encoding/json needs no ecosystem replacement
// here (see DESIGN.md).
type jsonCodec struct{}

// DefaultCodec is the stdlib-backed Codec used when none is configured.
var DefaultCodec Codec = jsonCodec{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
