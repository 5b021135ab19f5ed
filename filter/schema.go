package filter

import (
	"github.com/hupe1980/trialfacet/query"
)

// Schema is the static field registry of one entity type.
//
// It replaces runtime field discovery: the list of fields, their variants and
// projections is fixed when the schema is built and validated up front.
type Schema[E any] struct {
	entity string
	id     query.Scalar[E]
	fields []Field[E]
	index  map[string]int
}

// NewSchema validates fields and builds the registry for entity.
//
// id is the designated entity-id attribute used for id scoping; it may have a
// nil accessor when the entity type does not support scoping.
func NewSchema[E any](entity string, id query.Scalar[E], fields ...Field[E]) (*Schema[E], error) {
	if entity == "" {
		return nil, &ConfigError{Entity: "?", Reason: "entity name must not be empty"}
	}
	if len(fields) == 0 {
		return nil, &ConfigError{Entity: entity, Reason: "schema declares no fields"}
	}

	s := &Schema[E]{
		entity: entity,
		id:     id,
		fields: make([]Field[E], len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if err := f.validate(entity); err != nil {
			return nil, err
		}
		if _, dup := s.index[f.name]; dup {
			return nil, &ConfigError{Entity: entity, Field: f.name, Reason: "duplicate field"}
		}
		s.fields[i] = f
		s.index[f.name] = i
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on configuration errors.
// Use it for package-level schema declarations.
func MustSchema[E any](entity string, id query.Scalar[E], fields ...Field[E]) *Schema[E] {
	s, err := NewSchema(entity, id, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Entity returns the entity type name.
func (s *Schema[E]) Entity() string { return s.entity }

// ID returns the designated id attribute.
func (s *Schema[E]) ID() query.Scalar[E] { return s.id }

// FieldNames returns the declared field names in declaration order.
func (s *Schema[E]) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.name
	}
	return names
}

// Field returns the declaration of name.
func (s *Schema[E]) Field(name string) (Field[E], bool) {
	i, ok := s.index[name]
	if !ok {
		return Field[E]{}, false
	}
	return s.fields[i], true
}

// New returns a filter set with every field at its empty default.
func (s *Schema[E]) New() *FilterSet[E] {
	fs := &FilterSet[E]{schema: s, filters: make([]Filter, len(s.fields))}
	for i, f := range s.fields {
		fs.filters[i] = f.newFilter()
	}
	return fs
}
