package metadata

import (
	"slices"
)

// ValueSet is an unordered set of values keyed by Value.Key.
//
// The zero ValueSet is empty and ready to use for reads; Add allocates lazily.
type ValueSet struct {
	m map[string]Value
}

// NewValueSet creates a set holding the given values.
func NewValueSet(values ...Value) ValueSet {
	s := ValueSet{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v into the set. Numerically equal Int and Float values share a
// slot; the Int representation is kept regardless of insertion order.
func (s *ValueSet) Add(v Value) {
	if s.m == nil {
		s.m = make(map[string]Value)
	}
	k := v.Key()
	if old, ok := s.m[k]; ok && old.Kind <= v.Kind {
		return
	}
	s.m[k] = v
}

// Contains reports whether v is a member.
func (s ValueSet) Contains(v Value) bool {
	_, ok := s.m[v.Key()]
	return ok
}

// ContainsAny reports whether any of values is a member.
func (s ValueSet) ContainsAny(values []Value) bool {
	for _, v := range values {
		if s.Contains(v) {
			return true
		}
	}
	return false
}

// Len returns the number of members.
func (s ValueSet) Len() int { return len(s.m) }

// IsEmpty reports whether the set has no members.
func (s ValueSet) IsEmpty() bool { return len(s.m) == 0 }

// Values returns the members sorted by Compare.
func (s ValueSet) Values() []Value {
	out := make([]Value, 0, len(s.m))
	for _, v := range s.m {
		out = append(out, v)
	}
	slices.SortFunc(out, Compare)
	return out
}

// Clone returns an independent copy.
func (s ValueSet) Clone() ValueSet {
	if s.m == nil {
		return ValueSet{}
	}
	m := make(map[string]Value, len(s.m))
	for k, v := range s.m {
		m[k] = v
	}
	return ValueSet{m: m}
}

// Union returns a new set holding the members of s and other.
func (s ValueSet) Union(other ValueSet) ValueSet {
	out := s.Clone()
	for _, v := range other.m {
		out.Add(v)
	}
	return out
}

// Equal reports whether both sets hold the same members.
func (s ValueSet) Equal(other ValueSet) bool {
	if len(s.m) != len(other.m) {
		return false
	}
	for k := range s.m {
		if _, ok := other.m[k]; !ok {
			return false
		}
	}
	return true
}

// Only reports whether every member satisfies fn. An empty set returns false.
func (s ValueSet) Only(fn func(Value) bool) bool {
	if len(s.m) == 0 {
		return false
	}
	for _, v := range s.m {
		if !fn(v) {
			return false
		}
	}
	return true
}
