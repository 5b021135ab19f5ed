package filter

import (
	"fmt"

	"github.com/hupe1980/trialfacet/metadata"
	"github.com/hupe1980/trialfacet/query"
)

// Composite is a virtual filter set spanning two unrelated sub-entities, for
// example adverse events next to the concomitant medications given for them.
//
// It answers emptiness and hideability questions over both halves but cannot
// be compiled directly: callers compile Left and Right separately and join the
// results themselves.
type Composite[A, B any] struct {
	Left  *FilterSet[A]
	Right *FilterSet[B]
}

// NewComposite pairs two filter sets.
func NewComposite[A, B any](left *FilterSet[A], right *FilterSet[B]) *Composite[A, B] {
	return &Composite[A, B]{Left: left, Right: right}
}

// IsEmpty reports whether neither half holds a valid filter.
func (c *Composite[A, B]) IsEmpty() bool {
	return c.Left.IsEmpty() && c.Right.IsEmpty()
}

// CountValid returns the number of valid fields across both halves.
func (c *Composite[A, B]) CountValid() int {
	return c.Left.CountValid() + c.Right.CountValid()
}

// HideableFieldNames returns the hideable fields of both halves, qualified by entity name.
func (c *Composite[A, B]) HideableFieldNames(left HideRules[A], right HideRules[B]) []string {
	var names []string
	for _, n := range c.Left.HideableFieldNames(left) {
		names = append(names, c.Left.schema.entity+"."+n)
	}
	for _, n := range c.Right.HideableFieldNames(right) {
		names = append(names, c.Right.schema.entity+"."+n)
	}
	return names
}

// Compile always fails with ErrUnsupported.
func (c *Composite[A, B]) Compile([]metadata.Value) (query.Predicate[A], error) {
	return nil, fmt.Errorf("%w: composite of %s and %s cannot be compiled directly",
		ErrUnsupported, c.Left.schema.entity, c.Right.schema.entity)
}
