package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/trialfacet/metadata"
	"github.com/hupe1980/trialfacet/query"
	"github.com/hupe1980/trialfacet/testutil"
)

// row is a minimal entity with one nullable scalar and one collection.
type row struct {
	value  metadata.Value
	visits []int64
}

var (
	rowValue  = query.Scalar[row]{Name: "value", Get: func(r row) metadata.Value { return r.value }}
	rowVisits = query.Collection[row]{Name: "visits", Get: func(r row) []metadata.Value { return metadata.Ints(r.visits...) }}
)

func matches[E any](t *testing.T, p query.Predicate[E], entities []E) []bool {
	t.Helper()
	require.NotNil(t, p)
	out := make([]bool, len(entities))
	for i, e := range entities {
		out[i] = p.Match(e)
	}
	return out
}

func TestCompileScalar_Set(t *testing.T) {
	rows := []row{
		{value: metadata.String("a")},
		{value: metadata.String("b")},
		{value: metadata.String("c")},
		{value: metadata.Null()},
	}

	f := NewSetFilter(metadata.Strings("a", "b")...)
	p, err := CompileScalar(rowValue, f)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false, false}, matches(t, p, rows))
	assert.Equal(t, `value IN ("a", "b")`, p.String())

	f.IncludeEmpty = true
	p, err = CompileScalar(rowValue, f)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false, true}, matches(t, p, rows))
	assert.Equal(t, `value IN ("a", "b", null)`, p.String())

	// IncludeEmpty alone matches only entities without a value.
	p, err = CompileScalar(rowValue, &SetFilter{IncludeEmpty: true})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, true}, matches(t, p, rows))
}

func TestCompileScalar_Range(t *testing.T) {
	rows := []row{
		{value: metadata.Int(4)},
		{value: metadata.Int(5)},
		{value: metadata.Float(7.5)},
		{value: metadata.Int(10)},
		{value: metadata.Int(11)},
		{value: metadata.Null()},
		{value: metadata.String("7")},
	}

	tests := []struct {
		name   string
		filter *RangeFilter
		want   []bool
		str    string
	}{
		{
			name:   "closed",
			filter: Between(metadata.Int(5), metadata.Int(10)),
			want:   []bool{false, true, true, true, false, false, false},
			str:    "value BETWEEN 5 AND 10",
		},
		{
			name:   "closed with empty",
			filter: &RangeFilter{From: ptr(metadata.Int(5)), To: ptr(metadata.Int(10)), IncludeEmpty: true},
			want:   []bool{false, true, true, true, false, true, false},
			str:    "(value BETWEEN 5 AND 10 OR value IS NULL)",
		},
		{
			name:   "lower only",
			filter: &RangeFilter{From: ptr(metadata.Int(10))},
			want:   []bool{false, false, false, true, true, false, false},
			str:    "value >= 10",
		},
		{
			name:   "upper only",
			filter: &RangeFilter{To: ptr(metadata.Float(5))},
			want:   []bool{true, true, false, false, false, false, false},
			str:    "value <= 5",
		},
		{
			name:   "unbounded with empty",
			filter: &RangeFilter{IncludeEmpty: true},
			want:   []bool{true, true, true, true, true, true, true},
			str:    "(value IS NOT NULL OR value IS NULL)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := CompileScalar(rowValue, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, matches(t, p, rows))
			assert.Equal(t, tt.str, p.String())
		})
	}
}

func TestCompileScalar_UnboundedRangeExcludesNulls(t *testing.T) {
	rows := []row{{value: metadata.Null()}, {value: metadata.Int(5)}, {value: metadata.Date(2024, 1, 1)}}

	p, err := CompileScalar(rowValue, &RangeFilter{})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true}, matches(t, p, rows))
	assert.Equal(t, "value IS NOT NULL", p.String())
}

func TestFilterSet_UnboundedRangeIsInactive(t *testing.T) {
	s := MustSchema("row", rowValue, RangeField("value", rowValue))
	fs := s.New()
	require.NoError(t, fs.Set("value", &RangeFilter{}))
	assert.True(t, fs.IsEmpty())

	p, err := fs.Compile(nil)
	require.NoError(t, err)
	assert.True(t, p.Match(row{value: metadata.Null()}))
}

func TestCompileScalar_SetDoesNotAliasFilter(t *testing.T) {
	f := NewSetFilter(metadata.Int(1))
	p, err := CompileScalar(rowValue, f)
	require.NoError(t, err)

	f.Widen(metadata.Int(2))
	assert.False(t, p.Match(row{value: metadata.Int(2)}))
	assert.True(t, p.Match(row{value: metadata.Int(1)}))
}

func TestCompileScalar_RangeScenario(t *testing.T) {
	rows := []row{{value: metadata.Null()}, {value: metadata.Int(5)}}

	p, err := CompileScalar(rowValue, &RangeFilter{IncludeEmpty: true})
	require.NoError(t, err)

	assert.Equal(t, []bool{true, true}, matches(t, p, rows))
}

func TestCompileScalar_Dates(t *testing.T) {
	f := Between(metadata.Date(2024, 3, 1), metadata.Date(2024, 3, 31))
	p, err := CompileScalar(rowValue, f)
	require.NoError(t, err)

	assert.True(t, p.Match(row{value: metadata.Date(2024, 3, 1)}))
	assert.True(t, p.Match(row{value: metadata.Date(2024, 3, 31)}))
	assert.False(t, p.Match(row{value: metadata.Date(2024, 4, 1)}))
	assert.False(t, p.Match(row{value: metadata.Int(5)}), "cross-kind values are never in range")
}

func TestCompileCollection_Multi(t *testing.T) {
	rows := []row{{visits: []int64{7}}, {visits: []int64{8, 9}}, {visits: nil}}

	p, err := CompileCollection(rowVisits, NewMultiValueSetFilter(metadata.Int(8)))
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false}, matches(t, p, rows))

	p, err = CompileCollection(rowVisits, NewMultiValueSetFilter(metadata.Ints(7, 8, 9)...))
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false}, matches(t, p, rows))

	p, err = CompileCollection(rowVisits, &MultiValueSetFilter{Values: metadata.NewValueSet(metadata.Int(8)), IncludeEmpty: true})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true}, matches(t, p, rows))
	assert.Equal(t, "(ANY(visits) IN (8) OR visits IS EMPTY)", p.String())
}

func TestCompileCollection_InverseIsNegation(t *testing.T) {
	rng := testutil.NewRNG(42)
	subjects := rng.Subjects(300)

	cases := []*MultiValueSetFilter{
		NewMultiValueSetFilter(metadata.Strings("N")...),
		NewMultiValueSetFilter(metadata.Strings("Y", "Unknown")...),
		{Values: metadata.NewValueSet(metadata.String("N")), IncludeEmpty: true},
		{IncludeEmpty: true},
	}
	for _, positive := range cases {
		pos, err := CompileCollection(testutil.SubjectFlags, positive)
		require.NoError(t, err)
		neg, err := CompileCollection(testutil.SubjectFlags, positive.Inverse())
		require.NoError(t, err)

		assert.Equal(t, "NOT "+wrapParens(pos.String()), neg.String())
		for _, s := range subjects {
			require.Equal(t, !pos.Match(s), neg.Match(s), "subject %d", s.ID)
		}
	}
}

func wrapParens(s string) string {
	if s[0] == '(' {
		return s
	}
	return "(" + s + ")"
}

func TestCompile_InactiveFilters(t *testing.T) {
	p, err := CompileScalar(rowValue, NewSetFilter())
	require.NoError(t, err)
	assert.Nil(t, p)

	for _, f := range []Filter{NewSetFilter(), &RangeFilter{}} {
		p, err := compileScalar(rowValue, f)
		require.NoError(t, err)
		assert.Nil(t, p)
	}
	for _, f := range []Filter{NewMultiValueSetFilter(), NewInverseMultiValueSetFilter()} {
		p, err := CompileCollection(rowVisits, f)
		require.NoError(t, err)
		assert.Nil(t, p)
	}
}

func TestCompile_Errors(t *testing.T) {
	_, err := CompileScalar(rowValue, NewMultiValueSetFilter(metadata.Int(1)))
	assert.ErrorIs(t, err, ErrKindMismatch)

	_, err = CompileScalar(rowValue, nil)
	assert.ErrorIs(t, err, ErrNilFilter)

	_, err = CompileScalar(rowValue, bogus{})
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = CompileCollection(rowVisits, NewSetFilter(metadata.Int(1)))
	assert.ErrorIs(t, err, ErrKindMismatch)

	_, err = CompileMap(testutil.SubjectLabs, nil)
	assert.ErrorIs(t, err, ErrNilFilter)
}

func TestCompileMap_ValueMap(t *testing.T) {
	m, err := NewMapFilter(KindRange)
	require.NoError(t, err)
	require.NoError(t, m.Put(metadata.String("ALT"), Between(metadata.Int(10), metadata.Int(50))))
	require.NoError(t, m.Put(metadata.String("HGB"), &RangeFilter{From: ptr(metadata.Int(12)), IncludeEmpty: true}))

	p, err := CompileMap(testutil.SubjectLabs, m)
	require.NoError(t, err)
	assert.Equal(t, `(labs["ALT"] BETWEEN 10 AND 50 AND (labs["HGB"] >= 12 OR labs["HGB"] IS NULL))`, p.String())

	subjects := []testutil.Subject{
		{ID: 1, Labs: map[string]float64{"ALT": 20, "HGB": 13}},
		{ID: 2, Labs: map[string]float64{"ALT": 20}},
		{ID: 3, Labs: map[string]float64{"ALT": 80, "HGB": 13}},
		{ID: 4, Labs: map[string]float64{"HGB": 13}},
		{ID: 5, Labs: map[string]float64{"ALT": 20, "HGB": 9}},
	}
	assert.Equal(t, []bool{true, true, false, false, false}, matches(t, p, subjects))
}

func TestCompileMap_Multimap(t *testing.T) {
	m, err := NewMapFilter(KindSet)
	require.NoError(t, err)
	require.NoError(t, m.Put(metadata.String("EU"), NewSetFilter(metadata.Strings("S01", "S03")...)))

	p, err := CompileMap(testutil.SubjectSites, m)
	require.NoError(t, err)
	assert.Equal(t, `ANY(sites["EU"]) IN ("S01", "S03")`, p.String())

	subjects := []testutil.Subject{
		{Sites: map[string][]string{"EU": {"S02", "S03"}}},
		{Sites: map[string][]string{"EU": {"S02"}}},
		{Sites: map[string][]string{"US": {"S01"}}},
	}
	assert.Equal(t, []bool{true, false, false}, matches(t, p, subjects))

	// IncludeEmpty admits entities without any value under the key.
	require.NoError(t, m.Put(metadata.String("EU"), &SetFilter{IncludeEmpty: true}))
	p, err = CompileMap(testutil.SubjectSites, m)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, true}, matches(t, p, subjects))
}

func TestCompileMap_SingleKeyIsBareTerm(t *testing.T) {
	m, err := NewMapFilter(KindSet)
	require.NoError(t, err)
	require.NoError(t, m.Put(metadata.String("EU"), NewSetFilter(metadata.String("S01"))))

	p, err := CompileMap(testutil.SubjectSites, m)
	require.NoError(t, err)
	assert.IsType(t, &query.AnyIn[testutil.Subject]{}, p)
}

func TestCompileMap_InactiveEntryDisablesMap(t *testing.T) {
	// One inactive entry makes the whole map invalid, so no key constrains.
	m, err := NewMapFilter(KindRange)
	require.NoError(t, err)
	require.NoError(t, m.Put(metadata.String("ALT"), Between(metadata.Int(10), metadata.Int(50))))
	require.NoError(t, m.Put(metadata.String("HGB"), &RangeFilter{}))
	require.False(t, m.Valid())

	p, err := CompileMap(testutil.SubjectLabs, m)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestCompileMap_PerKeyIndependence(t *testing.T) {
	m, err := NewMapFilter(KindRange)
	require.NoError(t, err)
	require.NoError(t, m.Put(metadata.String("ALT"), Between(metadata.Int(10), metadata.Int(50))))
	require.NoError(t, m.Put(metadata.String("HGB"), Between(metadata.Int(12), metadata.Int(16))))

	before, err := CompileMap(testutil.SubjectLabs, m)
	require.NoError(t, err)

	require.NoError(t, m.Put(metadata.String("HGB"), Between(metadata.Int(1), metadata.Int(2))))
	require.NoError(t, m.Put(metadata.String("WBC"), Between(metadata.Int(4), metadata.Int(11))))

	after, err := CompileMap(testutil.SubjectLabs, m)
	require.NoError(t, err)

	b := before.(*query.And[testutil.Subject])
	a := after.(*query.And[testutil.Subject])
	require.Len(t, b.Terms, 2)
	require.Len(t, a.Terms, 3)
	assert.Equal(t, b.Terms[0].String(), a.Terms[0].String())

	rng := testutil.NewRNG(7)
	for _, s := range rng.Subjects(200) {
		require.Equal(t, b.Terms[0].Match(s), a.Terms[0].Match(s))
	}
}
