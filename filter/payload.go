package filter

import (
	"fmt"

	"github.com/hupe1980/trialfacet/metadata"
)

// Payload is the transport form of a FilterSet. It carries plain data only and
// round-trips through any codec (JSON, MessagePack) without loss.
//
// Fields at their empty default are omitted. Set values are emitted in
// metadata.Compare order; map entries keep the filter's key order.
type Payload struct {
	Entity   string                  `json:"entity" msgpack:"entity"`
	Disabled bool                    `json:"disabled,omitempty" msgpack:"disabled,omitempty"`
	Fields   map[string]FieldPayload `json:"fields" msgpack:"fields"`
}

// FieldPayload is the transport form of one filter.
type FieldPayload struct {
	Kind         string           `json:"kind" msgpack:"kind"`
	Values       []metadata.Value `json:"values,omitempty" msgpack:"values,omitempty"`
	From         *metadata.Value  `json:"from,omitempty" msgpack:"from,omitempty"`
	To           *metadata.Value  `json:"to,omitempty" msgpack:"to,omitempty"`
	IncludeEmpty bool             `json:"includeEmpty,omitempty" msgpack:"includeEmpty,omitempty"`
	SubKind      string           `json:"subKind,omitempty" msgpack:"subKind,omitempty"`
	Entries      []EntryPayload   `json:"entries,omitempty" msgpack:"entries,omitempty"`
}

// EntryPayload is the transport form of one map filter entry.
type EntryPayload struct {
	Key    metadata.Value `json:"key" msgpack:"key"`
	Filter FieldPayload   `json:"filter" msgpack:"filter"`
}

// Payload converts the set into its transport form.
func (fs *FilterSet[E]) Payload() Payload {
	p := Payload{
		Entity:   fs.schema.entity,
		Disabled: fs.disabled,
		Fields:   make(map[string]FieldPayload),
	}
	for i, f := range fs.filters {
		if f == nil || isZero(f) {
			continue
		}
		p.Fields[fs.schema.fields[i].name] = EncodeFilter(f)
	}
	return p
}

// FromPayload builds a filter set from its transport form.
// Unknown fields and variant mismatches are rejected.
func (s *Schema[E]) FromPayload(p Payload) (*FilterSet[E], error) {
	if p.Entity != "" && p.Entity != s.entity {
		return nil, fmt.Errorf("%w: payload for %s, schema %s", ErrSchemaMismatch, p.Entity, s.entity)
	}
	fs := s.New()
	fs.disabled = p.Disabled
	for name, fp := range p.Fields {
		f, err := DecodeFilter(fp)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.entity, name, err)
		}
		if err := fs.Set(name, f); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// EncodeFilter converts a single filter into its transport form.
func EncodeFilter(f Filter) FieldPayload {
	fp := FieldPayload{Kind: f.Kind().String()}
	switch x := f.(type) {
	case *SetFilter:
		fp.Values, fp.IncludeEmpty = x.Values.Values(), x.IncludeEmpty
	case *RangeFilter:
		fp.From, fp.To, fp.IncludeEmpty = copyBound(x.From), copyBound(x.To), x.IncludeEmpty
	case *MultiValueSetFilter:
		fp.Values, fp.IncludeEmpty = x.Values.Values(), x.IncludeEmpty
	case *InverseMultiValueSetFilter:
		fp.Values, fp.IncludeEmpty = x.Values.Values(), x.IncludeEmpty
	case *MapFilter:
		fp.SubKind = x.SubKind().String()
		fp.Entries = make([]EntryPayload, len(x.entries))
		for i, e := range x.entries {
			fp.Entries[i] = EntryPayload{Key: e.Key, Filter: EncodeFilter(e.Filter)}
		}
	}
	return fp
}

// DecodeFilter builds a filter from its transport form.
func DecodeFilter(fp FieldPayload) (Filter, error) {
	kind, err := ParseKind(fp.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindSet:
		return &SetFilter{Values: metadata.NewValueSet(fp.Values...), IncludeEmpty: fp.IncludeEmpty}, nil
	case KindRange:
		return &RangeFilter{From: copyBound(fp.From), To: copyBound(fp.To), IncludeEmpty: fp.IncludeEmpty}, nil
	case KindMultiValueSet:
		return &MultiValueSetFilter{Values: metadata.NewValueSet(fp.Values...), IncludeEmpty: fp.IncludeEmpty}, nil
	case KindInverseMultiValueSet:
		return &InverseMultiValueSetFilter{Values: metadata.NewValueSet(fp.Values...), IncludeEmpty: fp.IncludeEmpty}, nil
	default: // KindMap
		sub, err := ParseKind(fp.SubKind)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSubKind, fp.SubKind)
		}
		m, err := NewMapFilter(sub)
		if err != nil {
			return nil, err
		}
		for _, e := range fp.Entries {
			f, err := DecodeFilter(e.Filter)
			if err != nil {
				return nil, fmt.Errorf("map key %s: %w", e.Key, err)
			}
			if err := m.Put(e.Key, f); err != nil {
				return nil, err
			}
		}
		return m, nil
	}
}
