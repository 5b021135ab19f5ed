package codec

import (
	"encoding/json"
	"io"

	gojson "github.com/goccy/go-json"
)

// JSON is the standard-library JSON codec. metadata.Value encodes itself as
// a small tagged object, so payloads keep dates and the int/float split.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSON) NewEncoder(w io.Writer) Encoder     { return json.NewEncoder(w) }
func (JSON) NewDecoder(r io.Reader) Decoder     { return json.NewDecoder(r) }
func (JSON) Name() string                       { return "json" }

// GoJSON produces the same bytes as JSON through github.com/goccy/go-json,
// which decodes large datasets markedly faster.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error)      { return gojson.Marshal(v) }
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }
func (GoJSON) NewEncoder(w io.Writer) Encoder     { return gojson.NewEncoder(w) }
func (GoJSON) NewDecoder(r io.Reader) Decoder     { return gojson.NewDecoder(r) }
func (GoJSON) Name() string                       { return "go-json" }

// Default is the codec used when neither a name nor an extension selects one.
var Default Codec = GoJSON{}
