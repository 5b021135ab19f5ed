package query

import (
	"strings"

	"github.com/hupe1980/trialfacet/metadata"
)

func (p *And[E]) String() string {
	if len(p.Terms) == 0 {
		return "TRUE"
	}
	return joinTerms(p.Terms, " AND ")
}

func (p *Or[E]) String() string {
	if len(p.Terms) == 0 {
		return "FALSE"
	}
	return joinTerms(p.Terms, " OR ")
}

func (p *Not[E]) String() string { return "NOT " + wrap(p.Term.String()) }

func (*None[E]) String() string { return "FALSE" }

func (p *In[E]) String() string {
	return p.Attr.Name + " IN " + valueList(p.Values)
}

func (p *Between[E]) String() string {
	switch {
	case p.From != nil && p.To != nil:
		return p.Attr.Name + " BETWEEN " + p.From.String() + " AND " + p.To.String()
	case p.From != nil:
		return p.Attr.Name + " >= " + p.From.String()
	case p.To != nil:
		return p.Attr.Name + " <= " + p.To.String()
	default:
		return p.Attr.Name + " IS NOT NULL"
	}
}

func (p *NotNull[E]) String() string { return p.Attr.Name + " IS NOT NULL" }

func (p *IsNull[E]) String() string { return p.Attr.Name + " IS NULL" }

func (p *AnyIn[E]) String() string {
	return "ANY(" + p.Attr.Name + ") IN " + valueList(p.Values)
}

func (p *NoValues[E]) String() string { return p.Attr.Name + " IS EMPTY" }

func joinTerms[E any](terms []Predicate[E], sep string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func valueList(s metadata.ValueSet) string {
	values := s.Values()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func wrap(s string) string {
	if strings.HasPrefix(s, "(") {
		return s
	}
	return "(" + s + ")"
}
