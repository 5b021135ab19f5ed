package query

import (
	"github.com/hupe1980/trialfacet/metadata"
)

// Scalar is a named read accessor yielding at most one value per entity.
// A missing value is reported as metadata.Null().
type Scalar[E any] struct {
	Name string
	Get  func(E) metadata.Value

	// Map and Key are set on projections derived from a Mapping.
	Map string
	Key *metadata.Value
}

// Collection is a named read accessor yielding zero or more values per entity.
type Collection[E any] struct {
	Name string
	Get  func(E) []metadata.Value

	Map string
	Key *metadata.Value
}

// Mapping is a named read accessor yielding a keyed map per entity.
//
// Value-maps (Multi == false) store one value per key. Multimaps may store several.
type Mapping[E any] struct {
	Name  string
	Multi bool
	Get   func(E) []metadata.Entry
}

// Lookup returns the values stored under key for e.
func (m Mapping[E]) Lookup(e E, key metadata.Value) []metadata.Value {
	for _, entry := range m.Get(e) {
		if metadata.Equal(entry.Key, key) {
			return entry.Values
		}
	}
	return nil
}

// At derives the projection e -> attribute(e).get(key) of a value-map.
func (m Mapping[E]) At(key metadata.Value) Scalar[E] {
	k := key
	return Scalar[E]{
		Name: keyedName(m.Name, key),
		Get: func(e E) metadata.Value {
			values := m.Lookup(e, k)
			if len(values) == 0 {
				return metadata.Null()
			}
			return values[0]
		},
		Map: m.Name,
		Key: &k,
	}
}

// All derives the projection e -> attribute(e).get_all(key) of a multimap.
func (m Mapping[E]) All(key metadata.Value) Collection[E] {
	k := key
	return Collection[E]{
		Name: keyedName(m.Name, key),
		Get: func(e E) []metadata.Value {
			return m.Lookup(e, k)
		},
		Map: m.Name,
		Key: &k,
	}
}

func keyedName(name string, key metadata.Value) string {
	return name + "[" + key.String() + "]"
}
