package metadata

import (
	"fmt"
	"time"
)

// FromAny converts a Go value into a typed Value.
//
// This exists as an adapter layer for user input and decoded JSON/YAML documents.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case *string:
		if x == nil {
			return Null(), nil
		}
		return String(*x), nil
	case float64:
		return Float(x), nil
	case float32:
		return Float(float64(x)), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Int(int64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		if x > uint64(^uint32(0)) {
			// Avoid silently truncating large values.
			return Value{}, fmt.Errorf("metadata uint64 out of range: %d", x)
		}
		return Int(int64(x)), nil
	case time.Time:
		return Time(x), nil
	case *time.Time:
		if x == nil {
			return Null(), nil
		}
		return Time(*x), nil
	default:
		return Value{}, fmt.Errorf("unsupported metadata value type %T", v)
	}
}

// ValuesFromAny converts a slice of Go values.
func ValuesFromAny(in []any) ([]Value, error) {
	out := make([]Value, len(in))
	for i := range in {
		v, err := FromAny(in[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Strings converts a string slice into values.
func Strings(in ...string) []Value {
	out := make([]Value, len(in))
	for i := range in {
		out[i] = String(in[i])
	}
	return out
}

// Ints converts an int slice into values.
func Ints(in ...int64) []Value {
	out := make([]Value, len(in))
	for i := range in {
		out[i] = Int(in[i])
	}
	return out
}
