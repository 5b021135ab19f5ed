package filter

import (
	"github.com/hupe1980/trialfacet/query"
)

// Field declares one filterable attribute of entity type E: its name, filter
// variant, and the projection the variant is compiled against.
//
// Fields are created with SetField, RangeField, MultiValueField,
// InverseMultiValueField and MapField and registered in a Schema.
type Field[E any] struct {
	name       string
	kind       Kind
	sub        Kind
	scalar     query.Scalar[E]
	collection query.Collection[E]
	mapping    query.Mapping[E]
}

// SetField declares an exact-set filter over a scalar attribute.
func SetField[E any](name string, attr query.Scalar[E]) Field[E] {
	return Field[E]{name: name, kind: KindSet, scalar: attr}
}

// RangeField declares a numeric or date range filter over a scalar attribute.
func RangeField[E any](name string, attr query.Scalar[E]) Field[E] {
	return Field[E]{name: name, kind: KindRange, scalar: attr}
}

// MultiValueField declares an any-of filter over a collection attribute.
func MultiValueField[E any](name string, attr query.Collection[E]) Field[E] {
	return Field[E]{name: name, kind: KindMultiValueSet, collection: attr}
}

// InverseMultiValueField declares a none-of filter over a collection attribute.
func InverseMultiValueField[E any](name string, attr query.Collection[E]) Field[E] {
	return Field[E]{name: name, kind: KindInverseMultiValueSet, collection: attr}
}

// MapField declares a per-key filter over a map attribute with sub-filters of kind sub.
func MapField[E any](name string, attr query.Mapping[E], sub Kind) Field[E] {
	return Field[E]{name: name, kind: KindMap, sub: sub, mapping: attr}
}

// Name returns the field name.
func (f Field[E]) Name() string { return f.name }

// Kind returns the filter variant of the field.
func (f Field[E]) Kind() Kind { return f.kind }

// validate checks that the field is wired to an accessor matching its kind.
func (f Field[E]) validate(entity string) error {
	fail := func(reason string, cause error) error {
		return &ConfigError{Entity: entity, Field: f.name, Reason: reason, cause: cause}
	}
	if f.name == "" {
		return fail("field name must not be empty", nil)
	}
	switch f.kind {
	case KindSet, KindRange:
		if f.scalar.Get == nil {
			return fail("scalar accessor is nil", ErrNilFilter)
		}
	case KindMultiValueSet, KindInverseMultiValueSet:
		if f.collection.Get == nil {
			return fail("collection accessor is nil", ErrNilFilter)
		}
	case KindMap:
		if f.mapping.Get == nil {
			return fail("map accessor is nil", ErrNilFilter)
		}
		if _, err := newSubFilter(f.sub); err != nil {
			return fail("sub-filter kind "+f.sub.String()+" cannot be constructed", err)
		}
		if f.mapping.Multi && f.sub != KindSet {
			return fail("multimap fields only support set sub-filters", ErrInvalidSubKind)
		}
	default:
		return fail("unknown filter kind", ErrUnknownKind)
	}
	return nil
}

// newFilter returns the empty (default) filter for the field.
func (f Field[E]) newFilter() Filter {
	switch f.kind {
	case KindSet:
		return &SetFilter{}
	case KindRange:
		return &RangeFilter{}
	case KindMultiValueSet:
		return &MultiValueSetFilter{}
	case KindInverseMultiValueSet:
		return &InverseMultiValueSetFilter{}
	case KindMap:
		return &MapFilter{sub: f.sub}
	default:
		// Unreachable for fields accepted by NewSchema.
		panic("filter: field " + f.name + " has unknown kind")
	}
}

// accepts reports whether flt may be bound to the field.
func (f Field[E]) accepts(flt Filter) bool {
	if flt.Kind() != f.kind {
		return false
	}
	if m, ok := flt.(*MapFilter); ok {
		return m.SubKind() == f.sub
	}
	return true
}

// compile turns the field's filter into a predicate; nil means inactive.
func (f Field[E]) compile(flt Filter) (query.Predicate[E], error) {
	switch f.kind {
	case KindSet, KindRange:
		return compileScalar(f.scalar, flt)
	case KindMultiValueSet, KindInverseMultiValueSet:
		return compileCollection(f.collection, flt)
	case KindMap:
		m, ok := flt.(*MapFilter)
		if !ok {
			return nil, kindError(f.name, f.kind, flt)
		}
		return compileMap(f.mapping, m)
	default:
		return nil, kindError(f.name, f.kind, flt)
	}
}

// widen folds the entity's value(s) for this field into acc.
func (f Field[E]) widen(acc Filter, e E) {
	switch x := acc.(type) {
	case *SetFilter:
		x.Widen(f.scalar.Get(e))
	case *RangeFilter:
		x.Widen(f.scalar.Get(e))
	case *MultiValueSetFilter:
		x.Widen(f.collection.Get(e))
	case *InverseMultiValueSetFilter:
		x.Widen(f.collection.Get(e))
	case *MapFilter:
		x.Widen(f.mapping.Get(e))
	}
}
