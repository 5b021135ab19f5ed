package filter

import (
	"fmt"
	"slices"

	"github.com/hupe1980/trialfacet/metadata"
)

// MapEntry binds one map key to its sub-filter.
type MapEntry struct {
	Key    metadata.Value
	Filter Filter
}

// MapFilter holds one Set or Range sub-filter per key of a map attribute.
//
// Entries are kept sorted by key (metadata.Compare, nulls last) so that
// display order and merge results do not depend on insertion order.
type MapFilter struct {
	sub     Kind
	entries []MapEntry
}

// NewMapFilter creates an empty map filter whose entries are of kind sub.
// Only KindSet and KindRange sub-filters can be constructed.
func NewMapFilter(sub Kind) (*MapFilter, error) {
	if _, err := newSubFilter(sub); err != nil {
		return nil, err
	}
	return &MapFilter{sub: sub}, nil
}

// Kind implements Filter.
func (*MapFilter) Kind() Kind { return KindMap }

// SubKind returns the kind of the per-key sub-filters. The zero MapFilter
// holds Set sub-filters.
func (m *MapFilter) SubKind() Kind {
	if m.sub == 0 {
		return KindSet
	}
	return m.sub
}

// Len returns the number of keys.
func (m *MapFilter) Len() int { return len(m.entries) }

// Entries returns the entries in key order. The sub-filters are shared, not copied.
func (m *MapFilter) Entries() []MapEntry {
	return slices.Clone(m.entries)
}

// Get returns the sub-filter stored under key.
func (m *MapFilter) Get(key metadata.Value) (Filter, bool) {
	i, found := m.search(key)
	if !found {
		return nil, false
	}
	return m.entries[i].Filter, true
}

// Put stores f under key, replacing any previous sub-filter.
func (m *MapFilter) Put(key metadata.Value, f Filter) error {
	if f == nil {
		return fmt.Errorf("%w: map key %s", ErrNilFilter, key)
	}
	if f.Kind() != m.SubKind() {
		return fmt.Errorf("%w: map expects %s sub-filters, got %s", ErrKindMismatch, m.SubKind(), f.Kind())
	}
	i, found := m.search(key)
	if found {
		m.entries[i].Filter = f
		return nil
	}
	m.entries = slices.Insert(m.entries, i, MapEntry{Key: key, Filter: f})
	return nil
}

// Delete removes key.
func (m *MapFilter) Delete(key metadata.Value) {
	if i, found := m.search(key); found {
		m.entries = slices.Delete(m.entries, i, i+1)
	}
}

// Valid reports whether the map has entries and every sub-filter is valid.
func (m *MapFilter) Valid() bool {
	if len(m.entries) == 0 {
		return false
	}
	for _, e := range m.entries {
		if !e.Filter.Valid() {
			return false
		}
	}
	return true
}

// CanBeHidden reports whether the map is empty or every sub-filter is hideable.
func (m *MapFilter) CanBeHidden() bool {
	for _, e := range m.entries {
		if !e.Filter.CanBeHidden() {
			return false
		}
	}
	return true
}

// Clone implements Filter.
func (m *MapFilter) Clone() Filter {
	out := &MapFilter{sub: m.SubKind(), entries: make([]MapEntry, len(m.entries))}
	for i, e := range m.entries {
		out.entries[i] = MapEntry{Key: e.Key, Filter: e.Filter.Clone()}
	}
	return out
}

// Widen widens the sub-filter of every key present in entries, creating
// entries for new keys. A key without non-null values widens with null.
func (m *MapFilter) Widen(entries []metadata.Entry) {
	for _, entry := range entries {
		sub := m.getOrCreate(entry.Key)
		seen := false
		for _, v := range entry.Values {
			if v.IsNull() {
				continue
			}
			widenScalar(sub, v)
			seen = true
		}
		if !seen {
			widenScalar(sub, metadata.Null())
		}
	}
}

// Merge returns a map holding the union of keys with per-key merged sub-filters.
func (m *MapFilter) Merge(other *MapFilter) (*MapFilter, error) {
	if m.SubKind() != other.SubKind() {
		return nil, fmt.Errorf("%w: cannot merge %s map with %s map", ErrKindMismatch, m.SubKind(), other.SubKind())
	}
	out := m.Clone().(*MapFilter)
	for _, e := range other.entries {
		i, found := out.search(e.Key)
		if !found {
			out.entries = slices.Insert(out.entries, i, MapEntry{Key: e.Key, Filter: e.Filter.Clone()})
			continue
		}
		merged, err := Merge(out.entries[i].Filter, e.Filter)
		if err != nil {
			return nil, err
		}
		out.entries[i] = MapEntry{Key: metadata.Min(out.entries[i].Key, e.Key), Filter: merged}
	}
	return out, nil
}

func (*MapFilter) filter() {}

func (m *MapFilter) search(key metadata.Value) (int, bool) {
	return slices.BinarySearchFunc(m.entries, key, func(e MapEntry, k metadata.Value) int {
		return metadata.Compare(e.Key, k)
	})
}

func (m *MapFilter) getOrCreate(key metadata.Value) Filter {
	i, found := m.search(key)
	if found {
		m.entries[i].Key = metadata.Min(m.entries[i].Key, key)
		return m.entries[i].Filter
	}
	f := m.newEntry()
	m.entries = slices.Insert(m.entries, i, MapEntry{Key: key, Filter: f})
	return f
}

// newEntry returns an empty sub-filter. sub is only ever KindSet or KindRange:
// NewMapFilter rejects other kinds and the zero value means KindSet.
func (m *MapFilter) newEntry() Filter {
	if m.SubKind() == KindRange {
		return &RangeFilter{}
	}
	return &SetFilter{}
}

// newSubFilter constructs an empty map sub-filter.
func newSubFilter(kind Kind) (Filter, error) {
	switch kind {
	case KindSet:
		return &SetFilter{}, nil
	case KindRange:
		return &RangeFilter{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidSubKind, kind)
	}
}

func widenScalar(f Filter, v metadata.Value) {
	switch x := f.(type) {
	case *SetFilter:
		x.Widen(v)
	case *RangeFilter:
		x.Widen(v)
	}
}
