package codec

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgPack is a MessagePack codec. Struct fields are keyed by their msgpack
// tags; metadata.Value implements msgpack.CustomEncoder.
type MsgPack struct{}

func (MsgPack) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (MsgPack) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
func (MsgPack) NewEncoder(w io.Writer) Encoder     { return msgpack.NewEncoder(w) }
func (MsgPack) NewDecoder(r io.Reader) Decoder     { return msgpack.NewDecoder(r) }
func (MsgPack) Name() string                       { return "msgpack" }
