// Package codec centralizes payload and dataset encoding.
//
// Filter payloads and entity datasets are plain data with json and msgpack
// struct tags, so every codec here round-trips them. A dataset file names its
// codec through its extension; see ForExtension.
package codec

import (
	"fmt"
	"io"
	"path"
	"strings"
)

// Codec encodes and decodes values, whole or as a stream.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	NewEncoder(w io.Writer) Encoder
	NewDecoder(r io.Reader) Decoder
	Name() string
}

// Encoder writes successive values to a stream.
type Encoder interface {
	Encode(v any) error
}

// Decoder reads successive values from a stream.
type Decoder interface {
	Decode(v any) error
}

// ByName returns a built-in codec by its stable name.
//
// This is used by the CLI configuration, which names the payload codec.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	case "msgpack":
		return MsgPack{}, true
	default:
		return nil, false
	}
}

// ForExtension picks the codec for a file name, ignoring compression
// suffixes: "ae.json.zst" is JSON, "labs.msgpack.lz4" is MessagePack.
// Unknown extensions fall back to Default.
func ForExtension(name string) Codec {
	base := strings.ToLower(path.Base(name))
	for _, ext := range []string{".zst", ".zstd", ".lz4"} {
		base = strings.TrimSuffix(base, ext)
	}
	switch path.Ext(base) {
	case ".msgpack", ".mpk":
		return MsgPack{}
	default:
		return Default
	}
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
