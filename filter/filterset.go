package filter

import (
	"fmt"

	"github.com/hupe1980/trialfacet/metadata"
	"github.com/hupe1980/trialfacet/query"
)

// FilterSet holds one filter per field declared by its Schema.
//
// A FilterSet is populated once (from a request payload or by widening) and is
// read-only while it is compiled. It is not safe for concurrent mutation.
type FilterSet[E any] struct {
	schema   *Schema[E]
	filters  []Filter
	disabled bool
}

// Schema returns the schema the set was created from.
func (fs *FilterSet[E]) Schema() *Schema[E] { return fs.schema }

// Get returns the filter bound to name.
func (fs *FilterSet[E]) Get(name string) (Filter, error) {
	i, ok := fs.schema.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, fs.schema.entity, name)
	}
	return fs.filters[i], nil
}

// Set binds f to name. The filter must match the declared variant.
func (fs *FilterSet[E]) Set(name string, f Filter) error {
	i, ok := fs.schema.index[name]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, fs.schema.entity, name)
	}
	if f == nil {
		return &ConfigError{Entity: fs.schema.entity, Field: name, Reason: "filter is nil", cause: ErrNilFilter}
	}
	field := fs.schema.fields[i]
	if !field.accepts(f) {
		return fmt.Errorf("%w: %s.%s expects %s, got %s", ErrKindMismatch, fs.schema.entity, name, field.kind, f.Kind())
	}
	fs.filters[i] = f
	return nil
}

// SetDisabled marks the set as disabled. A disabled set compiles to a
// predicate that matches nothing, regardless of its fields.
func (fs *FilterSet[E]) SetDisabled(disabled bool) { fs.disabled = disabled }

// Disabled reports whether the set is disabled.
func (fs *FilterSet[E]) Disabled() bool { return fs.disabled }

// IsEmpty reports whether no field holds a valid filter.
func (fs *FilterSet[E]) IsEmpty() bool {
	return fs.CountValid() == 0
}

// CountValid returns the number of fields holding a valid filter.
func (fs *FilterSet[E]) CountValid() int {
	n := 0
	for _, f := range fs.filters {
		if f != nil && f.Valid() {
			n++
		}
	}
	return n
}

// ValidFieldNames returns the names of fields holding a valid filter, in declaration order.
func (fs *FilterSet[E]) ValidFieldNames() []string {
	var names []string
	for i, f := range fs.filters {
		if f != nil && f.Valid() {
			names = append(names, fs.schema.fields[i].name)
		}
	}
	return names
}

// Clone returns a deep copy.
func (fs *FilterSet[E]) Clone() *FilterSet[E] {
	out := &FilterSet[E]{schema: fs.schema, filters: make([]Filter, len(fs.filters)), disabled: fs.disabled}
	for i, f := range fs.filters {
		if f != nil {
			out.filters[i] = f.Clone()
		}
	}
	return out
}

// CloneWithout returns a deep copy with the named field reset to its empty default.
func (fs *FilterSet[E]) CloneWithout(name string) (*FilterSet[E], error) {
	i, ok := fs.schema.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, fs.schema.entity, name)
	}
	out := fs.Clone()
	out.filters[i] = fs.schema.fields[i].newFilter()
	return out, nil
}

// Compile composes the predicates of all active fields into one conjunction.
//
// When ids is non-empty, the result is further restricted to entities whose id
// attribute is in ids. A disabled set compiles to a predicate matching nothing.
// Any malformed field fails the whole compilation.
func (fs *FilterSet[E]) Compile(ids []metadata.Value) (query.Predicate[E], error) {
	if fs.disabled {
		return query.Nothing[E](), nil
	}

	terms := make([]query.Predicate[E], 0, len(fs.filters)+1)
	for i, f := range fs.filters {
		field := fs.schema.fields[i]
		if f == nil {
			return nil, &ConfigError{Entity: fs.schema.entity, Field: field.name, Reason: "filter is not initialized", cause: ErrNilFilter}
		}
		p, err := field.compile(f)
		if err != nil {
			return nil, fmt.Errorf("compile %s.%s: %w", fs.schema.entity, field.name, err)
		}
		if p != nil {
			terms = append(terms, p)
		}
	}

	if len(ids) > 0 {
		if fs.schema.id.Get == nil {
			return nil, &ConfigError{Entity: fs.schema.entity, Reason: "id scoping requested but schema has no id attribute", cause: ErrUnsupported}
		}
		terms = append(terms, &query.In[E]{Attr: fs.schema.id, Values: metadata.NewValueSet(ids...)})
	}

	if len(terms) == 0 {
		return query.Everything[E](), nil
	}
	return query.AllOf(terms...), nil
}

// Equal reports whether both sets share a schema and hold equal filters.
func (fs *FilterSet[E]) Equal(other *FilterSet[E]) bool {
	if fs.schema != other.schema || fs.disabled != other.disabled {
		return false
	}
	for i := range fs.filters {
		if !Equal(fs.filters[i], other.filters[i]) {
			return false
		}
	}
	return true
}

// Merge returns a fresh set where every field is the merge of both sets' filters.
func (fs *FilterSet[E]) Merge(other *FilterSet[E]) (*FilterSet[E], error) {
	if fs.schema != other.schema {
		return nil, fmt.Errorf("%w: %s and %s", ErrSchemaMismatch, fs.schema.entity, other.schema.entity)
	}
	out := &FilterSet[E]{schema: fs.schema, filters: make([]Filter, len(fs.filters)), disabled: fs.disabled || other.disabled}
	for i := range fs.filters {
		merged, err := Merge(fs.filters[i], other.filters[i])
		if err != nil {
			return nil, fmt.Errorf("merge %s.%s: %w", fs.schema.entity, fs.schema.fields[i].name, err)
		}
		out.filters[i] = merged
	}
	return out, nil
}

// Widen folds every field value of e into the set.
func (fs *FilterSet[E]) Widen(e E) {
	for i, field := range fs.schema.fields {
		field.widen(fs.filters[i], e)
	}
}
