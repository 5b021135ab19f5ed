package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	str := "Mild"
	ts := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null()},
		{"value passthrough", Int(3), Int(3)},
		{"bool", true, Bool(true)},
		{"string", "x", String("x")},
		{"string pointer", &str, String("Mild")},
		{"nil string pointer", (*string)(nil), Null()},
		{"float64", 1.5, Float(1.5)},
		{"float32", float32(0.5), Float(0.5)},
		{"int", 7, Int(7)},
		{"int8", int8(-2), Int(-2)},
		{"uint16", uint16(9), Int(9)},
		{"uint64", uint64(10), Int(10)},
		{"time", ts, Time(ts)},
		{"time pointer", &ts, Time(ts)},
		{"nil time pointer", (*time.Time)(nil), Null()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromAny_Errors(t *testing.T) {
	_, err := FromAny(uint64(1) << 40)
	assert.Error(t, err)

	_, err = FromAny([]int{1})
	assert.Error(t, err)

	_, err = ValuesFromAny([]any{"a", struct{}{}})
	assert.Error(t, err)
}

func TestValuesFromAny(t *testing.T) {
	got, err := ValuesFromAny([]any{"a", 1, nil})
	require.NoError(t, err)
	assert.Equal(t, []Value{String("a"), Int(1), Null()}, got)
}
