package query

import (
	"github.com/hupe1980/trialfacet/metadata"
)

// Predicate is a composable boolean expression over an entity.
//
// The node set is closed: And, Or, Not, None, In, Between, NotNull, IsNull,
// AnyIn and NoValues. Engines type-switch over these to translate a predicate
// into their own plan; Match evaluates it directly in-process.
type Predicate[E any] interface {
	// Match evaluates the predicate against e.
	Match(e E) bool

	// String renders the predicate in a compact, deterministic form.
	String() string

	// predicate is a marker method to prevent external implementation.
	predicate()
}

// And matches when every term matches. An empty And matches everything.
type And[E any] struct {
	Terms []Predicate[E]
}

func (p *And[E]) Match(e E) bool {
	for _, t := range p.Terms {
		if !t.Match(e) {
			return false
		}
	}
	return true
}

func (*And[E]) predicate() {}

// Or matches when any term matches. An empty Or matches nothing.
type Or[E any] struct {
	Terms []Predicate[E]
}

func (p *Or[E]) Match(e E) bool {
	for _, t := range p.Terms {
		if t.Match(e) {
			return true
		}
	}
	return false
}

func (*Or[E]) predicate() {}

// Not negates its term.
type Not[E any] struct {
	Term Predicate[E]
}

func (p *Not[E]) Match(e E) bool { return !p.Term.Match(e) }

func (*Not[E]) predicate() {}

// None matches nothing.
type None[E any] struct{}

func (*None[E]) Match(E) bool { return false }

func (*None[E]) predicate() {}

// In matches when the attribute value is a member of Values.
// Null is an ordinary member: a set containing null matches entities without a value.
type In[E any] struct {
	Attr   Scalar[E]
	Values metadata.ValueSet
}

func (p *In[E]) Match(e E) bool {
	return p.Values.Contains(p.Attr.Get(e))
}

func (*In[E]) predicate() {}

// Between matches when the attribute value lies within the inclusive bounds.
// A nil bound is open. Null values and values not comparable to a bound never match.
type Between[E any] struct {
	Attr Scalar[E]
	From *metadata.Value
	To   *metadata.Value
}

func (p *Between[E]) Match(e E) bool {
	v := p.Attr.Get(e)
	if v.IsNull() {
		return false
	}
	if p.From != nil {
		if !metadata.Comparable(v, *p.From) || metadata.Compare(v, *p.From) < 0 {
			return false
		}
	}
	if p.To != nil {
		if !metadata.Comparable(v, *p.To) || metadata.Compare(v, *p.To) > 0 {
			return false
		}
	}
	return true
}

func (*Between[E]) predicate() {}

// NotNull matches entities with a value for the attribute.
type NotNull[E any] struct {
	Attr Scalar[E]
}

func (p *NotNull[E]) Match(e E) bool { return !p.Attr.Get(e).IsNull() }

func (*NotNull[E]) predicate() {}

// IsNull matches entities without a value for the attribute.
type IsNull[E any] struct {
	Attr Scalar[E]
}

func (p *IsNull[E]) Match(e E) bool { return p.Attr.Get(e).IsNull() }

func (*IsNull[E]) predicate() {}

// AnyIn matches when at least one non-null element of the collection is a member of Values.
type AnyIn[E any] struct {
	Attr   Collection[E]
	Values metadata.ValueSet
}

func (p *AnyIn[E]) Match(e E) bool {
	for _, v := range p.Attr.Get(e) {
		if !v.IsNull() && p.Values.Contains(v) {
			return true
		}
	}
	return false
}

func (*AnyIn[E]) predicate() {}

// NoValues matches when the collection holds no non-null element.
type NoValues[E any] struct {
	Attr Collection[E]
}

func (p *NoValues[E]) Match(e E) bool {
	for _, v := range p.Attr.Get(e) {
		if !v.IsNull() {
			return false
		}
	}
	return true
}

func (*NoValues[E]) predicate() {}

// AllOf returns the conjunction of terms, skipping nil terms.
// A single remaining term is returned unwrapped.
func AllOf[E any](terms ...Predicate[E]) Predicate[E] {
	kept := compact(terms)
	if len(kept) == 1 {
		return kept[0]
	}
	return &And[E]{Terms: kept}
}

// AnyOf returns the disjunction of terms, skipping nil terms.
// A single remaining term is returned unwrapped.
func AnyOf[E any](terms ...Predicate[E]) Predicate[E] {
	kept := compact(terms)
	if len(kept) == 1 {
		return kept[0]
	}
	return &Or[E]{Terms: kept}
}

// Negate wraps p in a Not.
func Negate[E any](p Predicate[E]) Predicate[E] {
	return &Not[E]{Term: p}
}

// Nothing returns the predicate that matches no entity.
func Nothing[E any]() Predicate[E] {
	return &None[E]{}
}

// Everything returns the predicate that matches every entity.
func Everything[E any]() Predicate[E] {
	return &And[E]{}
}

func compact[E any](terms []Predicate[E]) []Predicate[E] {
	kept := make([]Predicate[E], 0, len(terms))
	for _, t := range terms {
		if t != nil {
			kept = append(kept, t)
		}
	}
	return kept
}
