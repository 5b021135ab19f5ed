package metadata

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
	"unique"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindNull represents an absent value. It is the zero Kind.
	KindNull Kind = iota
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindTime represents a point in time (dates are stored as midnight UTC).
	KindTime
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindTime:
		return "Time"
	default:
		return "Unknown"
	}
}

// EmptySentinel is the display literal some data sources use instead of a real null.
const EmptySentinel = "(empty)"

// Value is a small typed scalar used by filters, projections and predicates.
//
// The zero Value is null. Time values keep nanoseconds since the Unix epoch in I64.
//
// NOTE: This is also used for request payloads; keep it stable.
type Value struct {
	Kind Kind
	I64  int64
	F64  float64
	s    unique.Handle[string] // interned
	B    bool
}

// Null returns a null Value.
func Null() Value { return Value{} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Time returns a time Value.
func Time(t time.Time) Value { return Value{Kind: KindTime, I64: t.UnixNano()} }

// Date returns a time Value for midnight UTC of the given day.
func Date(year int, month time.Month, day int) Value {
	return Time(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// IsNull reports whether v carries no value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsInt64 returns the int64 value if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the float64 value if Kind is KindFloat.
func (v Value) AsFloat64() (float64, bool) {
	if v.Kind != KindFloat {
		return 0, false
	}
	return v.F64, true
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsTime returns the time value if Kind is KindTime.
func (v Value) AsTime() (time.Time, bool) {
	if v.Kind != KindTime {
		return time.Time{}, false
	}
	return time.Unix(0, v.I64).UTC(), true
}

// StringValue returns the string value if Kind is KindString, otherwise empty string.
func (v Value) StringValue() string {
	if v.Kind == KindString {
		return v.s.Value()
	}
	return ""
}

// IsEmptyLike reports whether v is null or the EmptySentinel string.
func (v Value) IsEmptyLike() bool {
	return v.Kind == KindNull || (v.Kind == KindString && v.s.Value() == EmptySentinel)
}

// Key returns a stable string representation for use in maps.
//
// Numbers that are mathematically equal share a key so that Int(2) and Float(2)
// land in the same set slot and posting list. Keys agree with Compare: two
// numbers share a key exactly when Compare reports them equal.
func (v Value) Key() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return "n:" + strconv.FormatInt(v.I64, 10)
	case KindFloat:
		if v.F64 == math.Trunc(v.F64) && v.F64 >= -(1<<63) && v.F64 < 1<<63 {
			return "n:" + strconv.FormatInt(int64(v.F64), 10)
		}
		return "f:" + strconv.FormatUint(math.Float64bits(v.F64), 16)
	case KindString:
		return "s:" + v.s.Value()
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case KindTime:
		return "t:" + strconv.FormatInt(v.I64, 10)
	default:
		return "invalid"
	}
}

// String renders the value for display and diagnostics.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s.Value())
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindTime:
		return time.Unix(0, v.I64).UTC().Format(time.RFC3339Nano)
	default:
		return "invalid"
	}
}

// valueWire is the serialized form shared by the JSON and MessagePack encodings.
type valueWire struct {
	Kind Kind    `json:"k" msgpack:"k"`
	I64  int64   `json:"i,omitempty" msgpack:"i,omitempty"`
	F64  float64 `json:"f,omitempty" msgpack:"f,omitempty"`
	S    string  `json:"s,omitempty" msgpack:"s,omitempty"`
	B    bool    `json:"b,omitempty" msgpack:"b,omitempty"`
}

func (v Value) wire() valueWire {
	w := valueWire{Kind: v.Kind, I64: v.I64, F64: v.F64, B: v.B}
	if v.Kind == KindString {
		w.S = v.s.Value()
	}
	return w
}

func (v *Value) fromWire(w valueWire) {
	*v = Value{Kind: w.Kind, I64: w.I64, F64: w.F64, B: w.B}
	if w.Kind == KindString {
		v.s = unique.Make(w.S)
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.wire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w valueWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Kind > KindTime {
		return &ErrInvalidKind{Kind: w.Kind}
	}
	v.fromWire(w)
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(v.wire())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w valueWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	if w.Kind > KindTime {
		return &ErrInvalidKind{Kind: w.Kind}
	}
	v.fromWire(w)
	return nil
}

// ErrInvalidKind is returned when a decoded value carries an unknown kind tag.
type ErrInvalidKind struct {
	Kind Kind
}

func (e *ErrInvalidKind) Error() string {
	return "metadata: invalid value kind " + strconv.Itoa(int(e.Kind))
}

// Entry is one key of a map-valued attribute together with the value(s) stored under it.
// Value-maps carry exactly one value per key; multimaps may carry several.
type Entry struct {
	Key    Value
	Values []Value
}
