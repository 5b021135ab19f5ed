package filter

import (
	"github.com/hupe1980/trialfacet/metadata"
)

// SetFilter matches a scalar attribute whose value is one of Values.
//
// With IncludeEmpty, null is treated as one more member of the set, so entities
// without a value match as well.
type SetFilter struct {
	Values       metadata.ValueSet
	IncludeEmpty bool
}

// NewSetFilter creates a set filter holding values.
func NewSetFilter(values ...metadata.Value) *SetFilter {
	return &SetFilter{Values: metadata.NewValueSet(values...)}
}

// Kind implements Filter.
func (*SetFilter) Kind() Kind { return KindSet }

// Valid reports whether the set has members or admits empty values.
func (f *SetFilter) Valid() bool {
	return !f.Values.IsEmpty() || f.IncludeEmpty
}

// CanBeHidden reports whether the set is empty or holds only the empty marker.
func (f *SetFilter) CanBeHidden() bool {
	return hideableValues(f.Values)
}

// Clone implements Filter.
func (f *SetFilter) Clone() Filter {
	return &SetFilter{Values: f.Values.Clone(), IncludeEmpty: f.IncludeEmpty}
}

// Widen adds v to the set. A null value sets IncludeEmpty instead.
func (f *SetFilter) Widen(v metadata.Value) {
	if v.IsNull() {
		f.IncludeEmpty = true
		return
	}
	f.Values.Add(v)
}

// Merge returns the union of f and other.
func (f *SetFilter) Merge(other *SetFilter) *SetFilter {
	return &SetFilter{
		Values:       f.Values.Union(other.Values),
		IncludeEmpty: f.IncludeEmpty || other.IncludeEmpty,
	}
}

func (*SetFilter) filter() {}

// hideableValues is true for an empty set or the singleton {null} / {EmptySentinel}.
func hideableValues(s metadata.ValueSet) bool {
	if s.IsEmpty() {
		return true
	}
	return s.Len() == 1 && s.Only(metadata.Value.IsEmptyLike)
}
