package filter

import (
	"github.com/hupe1980/trialfacet/metadata"
)

// RangeFilter matches a scalar attribute within inclusive bounds.
//
// A nil bound is open. When both bounds are nil the filter still excludes
// entities without a value unless IncludeEmpty is set.
type RangeFilter struct {
	From         *metadata.Value
	To           *metadata.Value
	IncludeEmpty bool
}

// NewRangeFilter creates a range filter. Pass nil for an open bound.
func NewRangeFilter(from, to *metadata.Value) *RangeFilter {
	return &RangeFilter{From: copyBound(from), To: copyBound(to)}
}

// Between is shorthand for a closed range.
func Between(from, to metadata.Value) *RangeFilter {
	return &RangeFilter{From: &from, To: &to}
}

// Kind implements Filter.
func (*RangeFilter) Kind() Kind { return KindRange }

// Valid reports whether a bound is set or empty values are admitted.
func (f *RangeFilter) Valid() bool {
	return f.From != nil || f.To != nil || f.IncludeEmpty
}

// CanBeHidden reports whether both bounds are absent, regardless of IncludeEmpty.
func (f *RangeFilter) CanBeHidden() bool {
	return f.From == nil && f.To == nil
}

// Clone implements Filter.
func (f *RangeFilter) Clone() Filter {
	return &RangeFilter{From: copyBound(f.From), To: copyBound(f.To), IncludeEmpty: f.IncludeEmpty}
}

// Widen extends the bounds to cover v. A null value sets IncludeEmpty instead.
func (f *RangeFilter) Widen(v metadata.Value) {
	if v.IsNull() {
		f.IncludeEmpty = true
		return
	}
	f.From = lowerOf(f.From, &v)
	f.To = upperOf(f.To, &v)
}

// Merge returns the smallest range covering both f and other.
//
// An absent bound means nothing was observed on that side, so it is the identity.
func (f *RangeFilter) Merge(other *RangeFilter) *RangeFilter {
	return &RangeFilter{
		From:         lowerOf(f.From, other.From),
		To:           upperOf(f.To, other.To),
		IncludeEmpty: f.IncludeEmpty || other.IncludeEmpty,
	}
}

func (*RangeFilter) filter() {}

func lowerOf(a, b *metadata.Value) *metadata.Value {
	switch {
	case a == nil:
		return copyBound(b)
	case b == nil:
		return copyBound(a)
	default:
		v := metadata.Min(*a, *b)
		return &v
	}
}

func upperOf(a, b *metadata.Value) *metadata.Value {
	switch {
	case a == nil:
		return copyBound(b)
	case b == nil:
		return copyBound(a)
	default:
		v := metadata.Max(*a, *b)
		return &v
	}
}

func copyBound(v *metadata.Value) *metadata.Value {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
