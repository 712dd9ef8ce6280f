package msgpack

import (
	"github.com/pwnedgod/kunci/codec"
	"github.com/vmihailenco/msgpack/v5"
)

type msgpackCodec struct {
}

// NewCodec returns a msgpack codec.
func NewCodec() codec.Codec {
	return &msgpackCodec{}
}

func (c msgpackCodec) Marshal(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (c msgpackCodec) Unmarshal(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}
