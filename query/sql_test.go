package query_test

import (
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/trialfacet/metadata"
	"github.com/hupe1980/trialfacet/query"
	"github.com/hupe1980/trialfacet/testutil"
)

type subject = testutil.Subject

func bound(v metadata.Value) *metadata.Value { return &v }

type namedPredicate struct {
	name string
	pred query.Predicate[subject]
}

func fixtures() []namedPredicate {
	flagsAny := &query.Or[subject]{Terms: []query.Predicate[subject]{
		&query.AnyIn[subject]{Attr: testutil.SubjectFlags, Values: metadata.NewValueSet(metadata.String("Y"))},
		&query.NoValues[subject]{Attr: testutil.SubjectFlags},
	}}

	return []namedPredicate{
		{"in", &query.In[subject]{Attr: testutil.SubjectArm, Values: metadata.NewValueSet(metadata.Strings("Placebo", "High Dose")...)}},
		{"in_with_null", &query.In[subject]{Attr: testutil.SubjectArm, Values: metadata.NewValueSet(metadata.String("Placebo"), metadata.Null())}},
		{"in_empty", &query.In[subject]{Attr: testutil.SubjectArm}},
		{"between", &query.Between[subject]{Attr: testutil.SubjectAge, From: bound(metadata.Int(18)), To: bound(metadata.Int(65))}},
		{"range_or_null", query.AnyOf[subject](
			&query.Between[subject]{Attr: testutil.SubjectAge, From: bound(metadata.Float(18.5))},
			&query.IsNull[subject]{Attr: testutil.SubjectAge},
		)},
		{"dates", &query.Between[subject]{
			Attr: testutil.SubjectEnrolled,
			From: bound(metadata.Date(2024, time.January, 1)),
			To:   bound(metadata.Time(time.Date(2024, time.June, 30, 12, 0, 0, 0, time.UTC))),
		}},
		{"any_in", &query.AnyIn[subject]{Attr: testutil.SubjectVisits, Values: metadata.NewValueSet(metadata.Ints(8, 7)...)}},
		{"inverse", query.Negate[subject](flagsAny)},
		{"inverse_null_collection", query.Negate[subject](
			&query.AnyIn[subject]{Attr: testutil.SubjectFlags, Values: metadata.NewValueSet(metadata.String("Y"))},
		)},
		{"map_keys", query.AllOf[subject](
			&query.Between[subject]{Attr: testutil.SubjectLabs.At(metadata.String("ALT")), From: bound(metadata.Int(10)), To: bound(metadata.Int(40))},
			&query.AnyIn[subject]{Attr: testutil.SubjectSites.All(metadata.String("EU")), Values: metadata.NewValueSet(metadata.String("S01"))},
		)},
		{"quoted_literal", &query.In[subject]{Attr: testutil.SubjectArm, Values: metadata.NewValueSet(metadata.String("O'Brien"))}},
		{"everything", query.Everything[subject]()},
		{"nothing", query.Nothing[subject]()},
	}
}

func render(t *testing.T, fn func(query.Predicate[subject]) (string, error)) []byte {
	t.Helper()
	var b strings.Builder
	for _, f := range fixtures() {
		out, err := fn(f.pred)
		require.NoError(t, err, f.name)
		b.WriteString(f.name + ": " + out + "\n")
	}
	return []byte(b.String())
}

func TestEncodeSQL_Golden(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))

	got := render(t, func(p query.Predicate[subject]) (string, error) {
		return query.EncodeSQL(p, nil)
	})

	g.Assert(t, "sql", got)
}

func TestString_Golden(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))

	got := render(t, func(p query.Predicate[subject]) (string, error) {
		return p.String(), nil
	})

	g.Assert(t, "string", got)
}

func TestEncodeSQL_ColumnMapping(t *testing.T) {
	opts := &query.EncoderOptions{ColumnMapping: map[string]string{
		"arm":  "Treatment Arm",
		"labs": "lab_results",
	}}

	sql, err := query.EncodeSQL[subject](&query.In[subject]{Attr: testutil.SubjectArm, Values: metadata.NewValueSet(metadata.String("A"))}, opts)
	require.NoError(t, err)
	assert.Equal(t, `"Treatment Arm" IN ('A')`, sql)

	sql, err = query.EncodeSQL[subject](&query.NotNull[subject]{Attr: testutil.SubjectLabs.At(metadata.String("HGB"))}, opts)
	require.NoError(t, err)
	assert.Equal(t, `lab_results['HGB'] IS NOT NULL`, sql)

	sql, err = query.EncodeSQL[subject](&query.IsNull[subject]{Attr: query.Scalar[subject]{Name: "date"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, `"date" IS NULL`, sql)
}

func TestAnyIn_NullCollectionUnderNot(t *testing.T) {
	anyY := &query.AnyIn[subject]{Attr: testutil.SubjectFlags, Values: metadata.NewValueSet(metadata.String("Y"))}
	inverse := query.Negate[subject](anyY)

	assert.True(t, inverse.Match(subject{}), "a subject without flags holds no Y")
	assert.False(t, inverse.Match(subject{Flags: []string{"N", "Y"}}))

	sql, err := query.EncodeSQL(inverse, nil)
	require.NoError(t, err)
	assert.Equal(t, "NOT (coalesce(list_has_any(flags, ['Y']), FALSE))", sql)
}
