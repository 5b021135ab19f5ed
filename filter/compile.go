package filter

import (
	"fmt"

	"github.com/hupe1980/trialfacet/metadata"
	"github.com/hupe1980/trialfacet/query"
)

// CompileScalar compiles a Set or Range filter against a scalar projection.
//
// A nil predicate with a nil error means the filter is inactive and contributes
// no constraint. Callers must treat it as the identity of AND, not as false.
//
// A Range filter always yields a predicate: without bounds it holds exactly
// for non-null values. FilterSet.Compile still skips such a field because it
// is not valid.
func CompileScalar[E any](attr query.Scalar[E], f Filter) (query.Predicate[E], error) {
	if r, ok := f.(*RangeFilter); ok && r != nil {
		return compileRange(attr, r), nil
	}
	return compileScalar(attr, f)
}

// CompileCollection compiles a MultiValueSet or InverseMultiValueSet filter
// against a collection projection. See CompileScalar for nil results.
func CompileCollection[E any](attr query.Collection[E], f Filter) (query.Predicate[E], error) {
	return compileCollection(attr, f)
}

// CompileMap compiles a map filter against a map projection. See CompileScalar for nil results.
func CompileMap[E any](attr query.Mapping[E], f *MapFilter) (query.Predicate[E], error) {
	return compileMap(attr, f)
}

func compileScalar[E any](attr query.Scalar[E], f Filter) (query.Predicate[E], error) {
	switch x := f.(type) {
	case *SetFilter:
		if !x.Valid() {
			return nil, nil
		}
		return compileSet(attr, x), nil
	case *RangeFilter:
		if !x.Valid() {
			return nil, nil
		}
		return compileRange(attr, x), nil
	case nil:
		return nil, fmt.Errorf("%w: %s", ErrNilFilter, attr.Name)
	default:
		return nil, kindError(attr.Name, KindSet, f)
	}
}

func compileCollection[E any](attr query.Collection[E], f Filter) (query.Predicate[E], error) {
	switch x := f.(type) {
	case *MultiValueSetFilter:
		if !x.Valid() {
			return nil, nil
		}
		return compileAnyOf(attr, x.Values, x.IncludeEmpty), nil
	case *InverseMultiValueSetFilter:
		if !x.Valid() {
			return nil, nil
		}
		return query.Negate(compileAnyOf(attr, x.Values, x.IncludeEmpty)), nil
	case nil:
		return nil, fmt.Errorf("%w: %s", ErrNilFilter, attr.Name)
	default:
		return nil, kindError(attr.Name, KindMultiValueSet, f)
	}
}

func compileMap[E any](attr query.Mapping[E], f *MapFilter) (query.Predicate[E], error) {
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilFilter, attr.Name)
	}
	if !f.Valid() {
		return nil, nil
	}

	terms := make([]query.Predicate[E], 0, len(f.entries))
	for _, entry := range f.entries {
		var (
			p   query.Predicate[E]
			err error
		)
		if attr.Multi {
			p, err = compileMultimapEntry(attr.All(entry.Key), entry.Filter)
		} else {
			p, err = compileScalar(attr.At(entry.Key), entry.Filter)
		}
		if err != nil {
			return nil, fmt.Errorf("map key %s: %w", entry.Key, err)
		}
		if p != nil {
			terms = append(terms, p)
		}
	}
	if len(terms) == 0 {
		return nil, nil
	}
	return query.AllOf(terms...), nil
}

// compileMultimapEntry compiles a Set sub-filter against get_all(key) with any-of semantics.
func compileMultimapEntry[E any](attr query.Collection[E], f Filter) (query.Predicate[E], error) {
	x, ok := f.(*SetFilter)
	if !ok {
		return nil, kindError(attr.Name, KindSet, f)
	}
	if !x.Valid() {
		return nil, nil
	}
	return compileAnyOf(attr, x.Values, x.IncludeEmpty), nil
}

// compileSet treats null as a first-class member of the value set when IncludeEmpty is set.
func compileSet[E any](attr query.Scalar[E], f *SetFilter) query.Predicate[E] {
	values := f.Values.Clone()
	if f.IncludeEmpty {
		values.Add(metadata.Null())
	}
	return &query.In[E]{Attr: attr, Values: values}
}

// compileRange builds the bound check and ORs in IsNull when IncludeEmpty is set.
// A range without bounds still excludes nulls unless IncludeEmpty is set.
func compileRange[E any](attr query.Scalar[E], f *RangeFilter) query.Predicate[E] {
	var base query.Predicate[E]
	if f.From == nil && f.To == nil {
		base = &query.NotNull[E]{Attr: attr}
	} else {
		base = &query.Between[E]{Attr: attr, From: copyBound(f.From), To: copyBound(f.To)}
	}
	if !f.IncludeEmpty {
		return base
	}
	return query.AnyOf(base, &query.IsNull[E]{Attr: attr})
}

// compileAnyOf matches a collection sharing at least one value with values;
// includeEmpty adds collections without non-null elements.
func compileAnyOf[E any](attr query.Collection[E], values metadata.ValueSet, includeEmpty bool) query.Predicate[E] {
	var terms []query.Predicate[E]
	if !values.IsEmpty() {
		terms = append(terms, &query.AnyIn[E]{Attr: attr, Values: values.Clone()})
	}
	if includeEmpty {
		terms = append(terms, &query.NoValues[E]{Attr: attr})
	}
	return query.AnyOf(terms...)
}

func kindError(name string, want Kind, got Filter) error {
	if got == nil {
		return fmt.Errorf("%w: %s", ErrNilFilter, name)
	}
	switch got.(type) {
	case *SetFilter, *RangeFilter, *MultiValueSetFilter, *InverseMultiValueSetFilter, *MapFilter:
		return fmt.Errorf("%w: %s expects %s, got %s", ErrKindMismatch, name, want, got.Kind())
	default:
		return fmt.Errorf("%w: %s: %T", ErrUnknownKind, name, got)
	}
}
