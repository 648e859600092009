package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Use it when the exported snapshot must be readable by tools that do not
// link goccy/go-json; the bytes are interchangeable with GoJSON either way.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used for newly written snapshots.
var Default Codec = GoJSON{}
