package filter

import (
	"github.com/hupe1980/trialfacet/metadata"
)

// HideRule is a domain-specific hideability check evaluated against the whole set.
type HideRule[E any] func(fs *FilterSet[E]) bool

// HideRules maps field names to extra hide rules.
type HideRules[E any] map[string]HideRule[E]

// HideableFieldNames returns, in declaration order, every field whose filter
// can be hidden. A field is hideable when its filter says so or when the rule
// registered for it in rules returns true.
func (fs *FilterSet[E]) HideableFieldNames(rules HideRules[E]) []string {
	var names []string
	for i, f := range fs.filters {
		name := fs.schema.fields[i].name
		hideable := f == nil || f.CanBeHidden()
		if !hideable {
			if rule, ok := rules[name]; ok && rule != nil {
				hideable = rule(fs)
			}
		}
		if hideable {
			names = append(names, name)
		}
	}
	return names
}

// OnlyValues returns a rule that hides field when every value it offers is one
// of sentinels, e.g. OnlyValues[E]("serious", "No", "N") for a flag that was
// never raised. Map fields are hidden when every entry offers only sentinels.
func OnlyValues[E any](field string, sentinels ...string) HideRule[E] {
	allowed := metadata.NewValueSet(metadata.Strings(sentinels...)...)
	only := func(values metadata.ValueSet) bool {
		return values.Only(allowed.Contains)
	}
	return func(fs *FilterSet[E]) bool {
		f, err := fs.Get(field)
		if err != nil {
			return false
		}
		switch x := f.(type) {
		case *SetFilter:
			return only(x.Values)
		case *MultiValueSetFilter:
			return only(x.Values)
		case *InverseMultiValueSetFilter:
			return only(x.Values)
		case *MapFilter:
			if x.Len() == 0 {
				return false
			}
			for _, e := range x.entries {
				s, ok := e.Filter.(*SetFilter)
				if !ok || !only(s.Values) {
					return false
				}
			}
			return true
		default:
			return false
		}
	}
}
