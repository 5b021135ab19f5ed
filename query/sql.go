package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/trialfacet/metadata"
)

// ErrUnknownNode is returned when an encoder meets a node outside the closed predicate set.
var ErrUnknownNode = errors.New("query: unknown predicate node")

// EncoderOptions configures SQL encoding.
type EncoderOptions struct {
	// ColumnMapping maps attribute names to column names.
	// Attributes not in the map use their own names.
	ColumnMapping map[string]string
}

// EncodeSQL renders p as the body of a DuckDB WHERE clause with inline literals.
//
// Collections are expected to be LIST columns and mappings MAP columns.
func EncodeSQL[E any](p Predicate[E], opts *EncoderOptions) (string, error) {
	if opts == nil {
		opts = &EncoderOptions{}
	}
	return encodeSQL(p, opts)
}

func encodeSQL[E any](p Predicate[E], opts *EncoderOptions) (string, error) {
	switch n := p.(type) {
	case *And[E]:
		if len(n.Terms) == 0 {
			return "TRUE", nil
		}
		return encodeConjunction(n.Terms, " AND ", opts)
	case *Or[E]:
		if len(n.Terms) == 0 {
			return "FALSE", nil
		}
		return encodeConjunction(n.Terms, " OR ", opts)
	case *Not[E]:
		inner, err := encodeSQL(n.Term, opts)
		if err != nil {
			return "", err
		}
		return "NOT " + wrap(inner), nil
	case *None[E]:
		return "FALSE", nil
	case *In[E]:
		col := column(n.Attr.Name, n.Attr.Map, n.Attr.Key, opts)
		return encodeIn(col, n.Values), nil
	case *Between[E]:
		col := column(n.Attr.Name, n.Attr.Map, n.Attr.Key, opts)
		switch {
		case n.From != nil && n.To != nil:
			return col + " BETWEEN " + formatValue(*n.From) + " AND " + formatValue(*n.To), nil
		case n.From != nil:
			return col + " >= " + formatValue(*n.From), nil
		case n.To != nil:
			return col + " <= " + formatValue(*n.To), nil
		default:
			return col + " IS NOT NULL", nil
		}
	case *NotNull[E]:
		return column(n.Attr.Name, n.Attr.Map, n.Attr.Key, opts) + " IS NOT NULL", nil
	case *IsNull[E]:
		return column(n.Attr.Name, n.Attr.Map, n.Attr.Key, opts) + " IS NULL", nil
	case *AnyIn[E]:
		col := column(n.Attr.Name, n.Attr.Map, n.Attr.Key, opts)
		// list_has_any is NULL over a NULL list; NOT must still keep those rows.
		return "coalesce(list_has_any(" + col + ", " + formatList(n.Values.Values()) + "), FALSE)", nil
	case *NoValues[E]:
		col := column(n.Attr.Name, n.Attr.Map, n.Attr.Key, opts)
		return "(" + col + " IS NULL OR len(list_filter(" + col + ", x -> x IS NOT NULL)) = 0)", nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownNode, p)
	}
}

func encodeConjunction[E any](terms []Predicate[E], op string, opts *EncoderOptions) (string, error) {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		encoded, err := encodeSQL(t, opts)
		if err != nil {
			return "", err
		}
		parts = append(parts, encoded)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, op) + ")", nil
}

// encodeIn renders set membership. A null member becomes an IS NULL alternative.
func encodeIn(col string, set metadata.ValueSet) string {
	var nonNull []metadata.Value
	hasNull := false
	for _, v := range set.Values() {
		if v.IsNull() {
			hasNull = true
			continue
		}
		nonNull = append(nonNull, v)
	}

	var conditions []string
	if len(nonNull) > 0 {
		literals := make([]string, len(nonNull))
		for i, v := range nonNull {
			literals[i] = formatValue(v)
		}
		conditions = append(conditions, col+" IN ("+strings.Join(literals, ", ")+")")
	}
	if hasNull {
		conditions = append(conditions, col+" IS NULL")
	}

	switch len(conditions) {
	case 0:
		return "FALSE"
	case 1:
		return conditions[0]
	default:
		return "(" + strings.Join(conditions, " OR ") + ")"
	}
}

func column(name, mapName string, key *metadata.Value, opts *EncoderOptions) string {
	if key != nil {
		return mapped(mapName, opts) + "[" + formatValue(*key) + "]"
	}
	return mapped(name, opts)
}

func mapped(name string, opts *EncoderOptions) string {
	if opts.ColumnMapping != nil {
		if m, ok := opts.ColumnMapping[name]; ok {
			name = m
		}
	}
	return quoteIdentifier(name)
}

func formatList(values []metadata.Value) string {
	literals := make([]string, len(values))
	for i, v := range values {
		literals[i] = formatValue(v)
	}
	return "[" + strings.Join(literals, ", ") + "]"
}

// formatValue formats a value as a SQL literal.
func formatValue(v metadata.Value) string {
	switch v.Kind {
	case metadata.KindInt:
		return strconv.FormatInt(v.I64, 10)
	case metadata.KindFloat:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case metadata.KindString:
		return quoteLiteral(v.StringValue())
	case metadata.KindBool:
		if v.B {
			return "TRUE"
		}
		return "FALSE"
	case metadata.KindTime:
		t, _ := v.AsTime()
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return "DATE '" + t.Format("2006-01-02") + "'"
		}
		return "TIMESTAMP '" + t.Format("2006-01-02 15:04:05.999999") + "'"
	default:
		return "NULL"
	}
}

// quoteLiteral returns a SQL string literal with proper escaping.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteIdentifier returns a quoted identifier if needed.
func quoteIdentifier(name string) string {
	if needsQuoting(name) {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return name
}

func needsQuoting(name string) bool {
	if len(name) == 0 {
		return true
	}
	c := name[0]
	if !isLetter(c) && c != '_' {
		return true
	}
	for i := 1; i < len(name); i++ {
		c = name[i]
		if !isLetter(c) && !isDigit(c) && c != '_' {
			return true
		}
	}

	switch strings.ToUpper(name) {
	case "SELECT", "FROM", "WHERE", "AND", "OR", "NOT", "NULL", "TRUE", "FALSE",
		"IN", "IS", "LIKE", "BETWEEN", "EXISTS", "CASE", "WHEN", "THEN", "ELSE", "END",
		"ORDER", "BY", "GROUP", "LIMIT", "ALL", "DISTINCT", "KEY", "DEFAULT",
		"CAST", "INTERVAL", "DATE", "TIME", "TIMESTAMP":
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
