package filter

import (
	"github.com/hupe1980/trialfacet/metadata"
)

// MultiValueSetFilter matches a collection attribute when any element is one of Values.
//
// With IncludeEmpty, entities whose collection holds no non-null element match as well.
type MultiValueSetFilter struct {
	Values       metadata.ValueSet
	IncludeEmpty bool
}

// NewMultiValueSetFilter creates a multi-value filter holding values.
func NewMultiValueSetFilter(values ...metadata.Value) *MultiValueSetFilter {
	return &MultiValueSetFilter{Values: metadata.NewValueSet(values...)}
}

// Kind implements Filter.
func (*MultiValueSetFilter) Kind() Kind { return KindMultiValueSet }

// Valid reports whether the set has members or admits empty collections.
func (f *MultiValueSetFilter) Valid() bool {
	return !f.Values.IsEmpty() || f.IncludeEmpty
}

// CanBeHidden reports whether the set is empty or holds only the empty marker.
func (f *MultiValueSetFilter) CanBeHidden() bool {
	return hideableValues(f.Values)
}

// Clone implements Filter.
func (f *MultiValueSetFilter) Clone() Filter {
	return &MultiValueSetFilter{Values: f.Values.Clone(), IncludeEmpty: f.IncludeEmpty}
}

// Widen adds every non-null element. A collection without non-null elements
// sets IncludeEmpty instead.
func (f *MultiValueSetFilter) Widen(values []metadata.Value) {
	f.IncludeEmpty = widenCollection(&f.Values, values) || f.IncludeEmpty
}

// Merge returns the union of f and other.
func (f *MultiValueSetFilter) Merge(other *MultiValueSetFilter) *MultiValueSetFilter {
	return &MultiValueSetFilter{
		Values:       f.Values.Union(other.Values),
		IncludeEmpty: f.IncludeEmpty || other.IncludeEmpty,
	}
}

// Inverse returns the inverse filter with the same criteria.
func (f *MultiValueSetFilter) Inverse() *InverseMultiValueSetFilter {
	return &InverseMultiValueSetFilter{Values: f.Values.Clone(), IncludeEmpty: f.IncludeEmpty}
}

func (*MultiValueSetFilter) filter() {}

// InverseMultiValueSetFilter has the shape of MultiValueSetFilter; its compiled
// predicate is the negation of the corresponding MultiValueSetFilter predicate,
// including the empty-collection clause.
type InverseMultiValueSetFilter struct {
	Values       metadata.ValueSet
	IncludeEmpty bool
}

// NewInverseMultiValueSetFilter creates an inverse multi-value filter holding values.
func NewInverseMultiValueSetFilter(values ...metadata.Value) *InverseMultiValueSetFilter {
	return &InverseMultiValueSetFilter{Values: metadata.NewValueSet(values...)}
}

// Kind implements Filter.
func (*InverseMultiValueSetFilter) Kind() Kind { return KindInverseMultiValueSet }

// Valid reports whether the set has members or admits empty collections.
func (f *InverseMultiValueSetFilter) Valid() bool {
	return !f.Values.IsEmpty() || f.IncludeEmpty
}

// CanBeHidden reports whether the set is empty or holds only the empty marker.
func (f *InverseMultiValueSetFilter) CanBeHidden() bool {
	return hideableValues(f.Values)
}

// Clone implements Filter.
func (f *InverseMultiValueSetFilter) Clone() Filter {
	return &InverseMultiValueSetFilter{Values: f.Values.Clone(), IncludeEmpty: f.IncludeEmpty}
}

// Widen adds every non-null element. A collection without non-null elements
// sets IncludeEmpty instead.
func (f *InverseMultiValueSetFilter) Widen(values []metadata.Value) {
	f.IncludeEmpty = widenCollection(&f.Values, values) || f.IncludeEmpty
}

// Merge returns the union of f and other.
func (f *InverseMultiValueSetFilter) Merge(other *InverseMultiValueSetFilter) *InverseMultiValueSetFilter {
	return &InverseMultiValueSetFilter{
		Values:       f.Values.Union(other.Values),
		IncludeEmpty: f.IncludeEmpty || other.IncludeEmpty,
	}
}

// Positive returns the non-inverted filter with the same criteria.
func (f *InverseMultiValueSetFilter) Positive() *MultiValueSetFilter {
	return &MultiValueSetFilter{Values: f.Values.Clone(), IncludeEmpty: f.IncludeEmpty}
}

func (*InverseMultiValueSetFilter) filter() {}

// widenCollection adds the non-null values to set and reports whether none were found.
func widenCollection(set *metadata.ValueSet, values []metadata.Value) bool {
	empty := true
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		set.Add(v)
		empty = false
	}
	return empty
}
