package json

import (
	"encoding/json"

	"github.com/pwnedgod/kunci/codec"
)

type jsonCodec struct {
}

// NewCodec returns a JSON codec. Records encoded with it can be inspected
// server-side by Redis Lua scripts through cjson.
func NewCodec() codec.Codec {
	return &jsonCodec{}
}

func (c jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (c jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
