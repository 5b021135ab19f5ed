package filter

import (
	"fmt"

	"github.com/hupe1980/trialfacet/metadata"
)

// Kind identifies a filter variant.
type Kind uint8

const (
	// KindSet matches a scalar attribute against a set of values.
	KindSet Kind = iota + 1
	// KindRange matches a scalar attribute against inclusive bounds.
	KindRange
	// KindMultiValueSet matches when any element of a collection is in a set.
	KindMultiValueSet
	// KindInverseMultiValueSet is the negation of KindMultiValueSet.
	KindInverseMultiValueSet
	// KindMap applies a Set or Range sub-filter per key of a map attribute.
	KindMap
)

// String returns the stable name of the Kind (used in payloads).
func (k Kind) String() string {
	switch k {
	case KindSet:
		return "set"
	case KindRange:
		return "range"
	case KindMultiValueSet:
		return "multi"
	case KindInverseMultiValueSet:
		return "inverse"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "set":
		return KindSet, nil
	case "range":
		return KindRange, nil
	case "multi":
		return KindMultiValueSet, nil
	case "inverse":
		return KindInverseMultiValueSet, nil
	case "map":
		return KindMap, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Filter is one of *SetFilter, *RangeFilter, *MultiValueSetFilter,
// *InverseMultiValueSetFilter or *MapFilter.
type Filter interface {
	// Kind returns the variant tag.
	Kind() Kind

	// Valid reports whether the filter carries any criteria.
	// Only valid filters contribute to a compiled predicate.
	Valid() bool

	// CanBeHidden reports whether the filter carries no discriminating information.
	CanBeHidden() bool

	// Clone returns an independent deep copy.
	Clone() Filter

	// filter is a marker method to prevent external implementation.
	filter()
}

// New returns an empty filter of the given scalar, collection or map kind.
// Map filters created this way use Set sub-filters; use NewMapFilter to choose.
func New(kind Kind) (Filter, error) {
	switch kind {
	case KindSet:
		return &SetFilter{}, nil
	case KindRange:
		return &RangeFilter{}, nil
	case KindMultiValueSet:
		return &MultiValueSetFilter{}, nil
	case KindInverseMultiValueSet:
		return &InverseMultiValueSetFilter{}, nil
	case KindMap:
		return NewMapFilter(KindSet)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

// Merge combines two filters of the same variant into a fresh filter.
// Merge is associative and commutative.
func Merge(a, b Filter) (Filter, error) {
	switch x := a.(type) {
	case *SetFilter:
		y, ok := b.(*SetFilter)
		if !ok {
			return nil, mismatch(a, b)
		}
		return x.Merge(y), nil
	case *RangeFilter:
		y, ok := b.(*RangeFilter)
		if !ok {
			return nil, mismatch(a, b)
		}
		return x.Merge(y), nil
	case *MultiValueSetFilter:
		y, ok := b.(*MultiValueSetFilter)
		if !ok {
			return nil, mismatch(a, b)
		}
		return x.Merge(y), nil
	case *InverseMultiValueSetFilter:
		y, ok := b.(*InverseMultiValueSetFilter)
		if !ok {
			return nil, mismatch(a, b)
		}
		return x.Merge(y), nil
	case *MapFilter:
		y, ok := b.(*MapFilter)
		if !ok {
			return nil, mismatch(a, b)
		}
		return x.Merge(y)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKind, a)
	}
}

// Equal reports whether two filters hold the same criteria.
func Equal(a, b Filter) bool {
	switch x := a.(type) {
	case *SetFilter:
		y, ok := b.(*SetFilter)
		return ok && x.IncludeEmpty == y.IncludeEmpty && x.Values.Equal(y.Values)
	case *RangeFilter:
		y, ok := b.(*RangeFilter)
		return ok && x.IncludeEmpty == y.IncludeEmpty && equalBound(x.From, y.From) && equalBound(x.To, y.To)
	case *MultiValueSetFilter:
		y, ok := b.(*MultiValueSetFilter)
		return ok && x.IncludeEmpty == y.IncludeEmpty && x.Values.Equal(y.Values)
	case *InverseMultiValueSetFilter:
		y, ok := b.(*InverseMultiValueSetFilter)
		return ok && x.IncludeEmpty == y.IncludeEmpty && x.Values.Equal(y.Values)
	case *MapFilter:
		y, ok := b.(*MapFilter)
		if !ok || x.SubKind() != y.SubKind() || len(x.entries) != len(y.entries) {
			return false
		}
		for i := range x.entries {
			if !metadata.Equal(x.entries[i].Key, y.entries[i].Key) || !Equal(x.entries[i].Filter, y.entries[i].Filter) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// isZero reports whether f is indistinguishable from a freshly created filter.
func isZero(f Filter) bool {
	switch x := f.(type) {
	case *SetFilter:
		return x.Values.IsEmpty() && !x.IncludeEmpty
	case *RangeFilter:
		return x.From == nil && x.To == nil && !x.IncludeEmpty
	case *MultiValueSetFilter:
		return x.Values.IsEmpty() && !x.IncludeEmpty
	case *InverseMultiValueSetFilter:
		return x.Values.IsEmpty() && !x.IncludeEmpty
	case *MapFilter:
		return len(x.entries) == 0
	default:
		return false
	}
}

func equalBound(a, b *metadata.Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return metadata.Equal(*a, *b) && a.Kind == b.Kind
}

func mismatch(a, b Filter) error {
	return fmt.Errorf("%w: cannot merge %s with %s", ErrKindMismatch, a.Kind(), kindOf(b))
}

func kindOf(f Filter) string {
	if f == nil {
		return "nil"
	}
	return f.Kind().String()
}
