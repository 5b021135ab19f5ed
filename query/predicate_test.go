package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/trialfacet/metadata"
	"github.com/hupe1980/trialfacet/query"
	"github.com/hupe1980/trialfacet/testutil"
)

func TestPredicate_Match(t *testing.T) {
	placebo := subject{ID: 1, Arm: testutil.Ptr("Placebo"), Age: testutil.Ptr(40.0), Visits: []int64{1, 3}}
	blank := subject{ID: 2}

	tests := []struct {
		name string
		pred query.Predicate[subject]
		want [2]bool
	}{
		{"empty and", query.Everything[subject](), [2]bool{true, true}},
		{"empty or", &query.Or[subject]{}, [2]bool{false, false}},
		{"none", query.Nothing[subject](), [2]bool{false, false}},
		{"in", &query.In[subject]{Attr: testutil.SubjectArm, Values: metadata.NewValueSet(metadata.String("Placebo"))}, [2]bool{true, false}},
		{"in null", &query.In[subject]{Attr: testutil.SubjectArm, Values: metadata.NewValueSet(metadata.Null())}, [2]bool{false, true}},
		{"between", &query.Between[subject]{Attr: testutil.SubjectAge, From: bound(metadata.Int(40)), To: bound(metadata.Int(40))}, [2]bool{true, false}},
		{"between open", &query.Between[subject]{Attr: testutil.SubjectAge}, [2]bool{true, false}},
		{"between other kind", &query.Between[subject]{Attr: testutil.SubjectArm, From: bound(metadata.Int(0))}, [2]bool{false, false}},
		{"not null", &query.NotNull[subject]{Attr: testutil.SubjectAge}, [2]bool{true, false}},
		{"is null", &query.IsNull[subject]{Attr: testutil.SubjectAge}, [2]bool{false, true}},
		{"any in", &query.AnyIn[subject]{Attr: testutil.SubjectVisits, Values: metadata.NewValueSet(metadata.Ints(2, 3)...)}, [2]bool{true, false}},
		{"no values", &query.NoValues[subject]{Attr: testutil.SubjectVisits}, [2]bool{false, true}},
		{"not", query.Negate[subject](&query.NoValues[subject]{Attr: testutil.SubjectVisits}), [2]bool{true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want[0], tt.pred.Match(placebo))
			assert.Equal(t, tt.want[1], tt.pred.Match(blank))
		})
	}
}

func TestNoValues_IgnoresNullElements(t *testing.T) {
	attr := query.Collection[subject]{Name: "x", Get: func(subject) []metadata.Value {
		return []metadata.Value{metadata.Null(), metadata.Null()}
	}}

	assert.True(t, (&query.NoValues[subject]{Attr: attr}).Match(subject{}))
}

func TestAllOf(t *testing.T) {
	in := &query.IsNull[subject]{Attr: testutil.SubjectArm}

	assert.Same(t, in, query.AllOf[subject](nil, in, nil))
	assert.Same(t, in, query.AnyOf[subject](in))
	assert.Equal(t, "TRUE", query.AllOf[subject]().String())
	assert.Equal(t, "FALSE", query.AnyOf[subject](nil).String())

	and := query.AllOf[subject](in, &query.NotNull[subject]{Attr: testutil.SubjectAge})
	assert.Len(t, and.(*query.And[subject]).Terms, 2)
}

func TestMapping(t *testing.T) {
	s := subject{
		Labs:  map[string]float64{"ALT": 22},
		Sites: map[string][]string{"EU": {"S01", "S04"}},
	}

	alt := testutil.SubjectLabs.At(metadata.String("ALT"))
	assert.Equal(t, `labs["ALT"]`, alt.Name)
	assert.Equal(t, "labs", alt.Map)
	assert.Equal(t, metadata.Float(22), alt.Get(s))
	assert.True(t, testutil.SubjectLabs.At(metadata.String("HGB")).Get(s).IsNull())

	eu := testutil.SubjectSites.All(metadata.String("EU"))
	assert.Equal(t, metadata.Strings("S01", "S04"), eu.Get(s))
	assert.Empty(t, testutil.SubjectSites.All(metadata.String("US")).Get(s))
	assert.Empty(t, testutil.SubjectSites.Lookup(subject{}, metadata.String("EU")))
}
