package metadata

import (
	"cmp"
	"math"
	"strings"
)

// rank groups kinds that are mutually comparable. Ints and floats share a rank.
func rank(k Kind) int {
	switch k {
	case KindInt, KindFloat:
		return 1
	case KindString:
		return 2
	case KindBool:
		return 3
	case KindTime:
		return 4
	default: // KindNull sorts last
		return 5
	}
}

// Comparable reports whether a and b are both non-null and ordered against each other.
func Comparable(a, b Value) bool {
	if a.Kind == KindNull || b.Kind == KindNull {
		return false
	}
	return rank(a.Kind) == rank(b.Kind)
}

// Compare defines a total order over values: numbers, then strings, booleans,
// times, and nulls last. Values of different ranks compare by rank.
func Compare(a, b Value) int {
	ra, rb := rank(a.Kind), rank(b.Kind)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch a.Kind {
	case KindNull:
		return 0
	case KindInt, KindFloat:
		return compareNumbers(a, b)
	case KindString:
		return strings.Compare(a.s.Value(), b.s.Value())
	case KindBool:
		switch {
		case a.B == b.B:
			return 0
		case !a.B:
			return -1
		default:
			return 1
		}
	case KindTime:
		return cmp.Compare(a.I64, b.I64)
	default:
		return 0
	}
}

// Equal reports whether a and b hold the same value. Two nulls are equal.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// Min returns the smaller of a and b. Ties between Int and Float prefer Int.
func Min(a, b Value) Value {
	if c := Compare(b, a); c < 0 || (c == 0 && b.Kind < a.Kind) {
		return b
	}
	return a
}

// Max returns the larger of a and b. Ties between Int and Float prefer Int.
func Max(a, b Value) Value {
	if c := Compare(b, a); c > 0 || (c == 0 && b.Kind < a.Kind) {
		return b
	}
	return a
}

// compareNumbers orders ints and floats exactly, without rounding ints
// beyond 2^53 through float64.
func compareNumbers(a, b Value) int {
	switch {
	case a.Kind == KindInt && b.Kind == KindInt:
		return cmp.Compare(a.I64, b.I64)
	case a.Kind == KindFloat && b.Kind == KindFloat:
		return cmp.Compare(a.F64, b.F64)
	case a.Kind == KindInt:
		return compareIntFloat(a.I64, b.F64)
	default:
		return -compareIntFloat(b.I64, a.F64)
	}
}

// compareIntFloat compares i with f. NaN sorts below every number.
func compareIntFloat(i int64, f float64) int {
	switch {
	case math.IsNaN(f):
		return 1
	case f >= 1<<63:
		return -1
	case f < -(1 << 63):
		return 1
	}
	whole := math.Trunc(f)
	if c := cmp.Compare(i, int64(whole)); c != 0 {
		return c
	}
	return cmp.Compare(0, f-whole)
}
