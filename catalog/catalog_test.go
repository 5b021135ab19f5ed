package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/trialfacet"
	"github.com/hupe1980/trialfacet/blobstore"
	"github.com/hupe1980/trialfacet/filter"
	"github.com/hupe1980/trialfacet/internal/dataset"
	"github.com/hupe1980/trialfacet/metadata"
)

func ptr[T any](v T) *T { return &v }

func adverseEvents() []AdverseEvent {
	day := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	return []AdverseEvent{
		{ID: 1, SubjectID: "S-001", Term: "Headache", Severity: ptr("Mild"), Grade: ptr(int64(1)), Onset: ptr(day),
			Serious: "N", Outcomes: []string{"Recovered"}, Actions: []string{"None"},
			Relatedness: map[string]string{"DrugA": "Unlikely"}},
		{ID: 2, SubjectID: "S-001", Term: "Nausea", Severity: ptr("Moderate"), Grade: ptr(int64(2)), Onset: ptr(day.AddDate(0, 0, 3)),
			Serious: "N", Outcomes: []string{"Recovering"}, Actions: []string{"Dose Reduced"},
			Relatedness: map[string]string{"DrugA": "Possible"}},
		{ID: 3, SubjectID: "S-002", Term: "Neutropenia", Severity: ptr("Severe"), Grade: ptr(int64(3)), Onset: ptr(day.AddDate(0, 1, 0)),
			Serious: "Y", Outcomes: []string{"Recovered"}, Actions: []string{"Drug Withdrawn"},
			Relatedness: map[string]string{"DrugA": "Probable", "DrugB": "Possible"}},
		{ID: 4, SubjectID: "S-003", Term: "Rash", Serious: "N"},
	}
}

func labResults() []LabResult {
	return []LabResult{
		{ID: 1, SubjectID: "S-001", Test: "ALT", Value: ptr(22.0), Visit: ptr(int64(1)), Abnormal: "N",
			Panels: []string{"LFT"}, Reference: map[string]float64{"low": 7, "high": 56}},
		{ID: 2, SubjectID: "S-001", Test: "ALT", Value: ptr(31.5), Visit: ptr(int64(2)), Abnormal: "N",
			Panels: []string{"LFT"}, Reference: map[string]float64{"low": 7, "high": 56}},
		{ID: 3, SubjectID: "S-002", Test: "HGB", Value: ptr(9.1), Visit: ptr(int64(1)), Abnormal: "Y",
			Flags: []string{"L"}, Panels: []string{"CBC"}, Reference: map[string]float64{"low": 12, "high": 17.5}},
	}
}

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{AdverseEventEntity, LabResultEntity}, Names())

	e, ok := Lookup(AdverseEventEntity)
	require.True(t, ok)
	assert.Equal(t, AdverseEventEntity, e.Name())
	assert.Equal(t, []string{"subject", "term", "severity", "grade", "onset", "serious", "outcomes", "excluded_actions", "relatedness"}, e.Fields())

	_, ok = Lookup("medications")
	assert.False(t, ok)
}

func TestEntity_Compile(t *testing.T) {
	e, _ := Lookup(AdverseEventEntity)

	sel := AdverseEventSchema.New()
	require.NoError(t, sel.Set("severity", filter.NewSetFilter(metadata.String("Severe"))))

	c, err := e.Compile(sel.Payload(), nil)
	require.NoError(t, err)
	assert.Equal(t, AdverseEventEntity, c.Entity)
	assert.Equal(t, `severity IN ("Severe")`, c.Predicate)
	assert.Equal(t, `aesev IN ('Severe')`, c.SQL)

	_, err = e.Compile(filter.Payload{Entity: LabResultEntity}, nil)
	var mismatch *trialfacet.ErrEntityMismatch
	assert.ErrorAs(t, err, &mismatch)

	_, err = e.Compile(filter.Payload{Fields: map[string]filter.FieldPayload{"dose": {Kind: "set"}}}, nil)
	assert.ErrorIs(t, err, trialfacet.ErrInvalidRequest)
}

func TestAdverseEvents_Available(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, dataset.Save(ctx, store, "ae.json.zst", adverseEvents()))

	e, _ := Lookup(AdverseEventEntity)
	svc, err := e.Open(ctx, store, "ae.json.zst")
	require.NoError(t, err)
	defer svc.Close()
	assert.Equal(t, 4, svc.Len())

	sel := AdverseEventSchema.New()
	require.NoError(t, sel.Set("severity", filter.NewSetFilter(metadata.Strings("Mild", "Moderate")...)))

	av, err := svc.Available(ctx, sel.Payload(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, av.MatchedCount)

	// only non-serious events remain
	assert.Contains(t, av.Hideable, "serious")
	assert.NotContains(t, av.Hideable, "term")

	grade := av.Filters.Fields["grade"]
	require.NotNil(t, grade.From)
	require.NotNil(t, grade.To)
	assert.True(t, metadata.Equal(metadata.Int(1), *grade.From))
	assert.True(t, metadata.Equal(metadata.Int(2), *grade.To))

	rel := av.Filters.Fields["relatedness"]
	require.Len(t, rel.Entries, 1)
	assert.True(t, metadata.Equal(metadata.String("DrugA"), rel.Entries[0].Key))
	assert.Len(t, rel.Entries[0].Filter.Values, 2)

	serious := AdverseEventSchema.New()
	require.NoError(t, serious.Set("serious", filter.NewSetFilter(metadata.String("Y"))))
	av, err = svc.Available(ctx, serious.Payload(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, av.MatchedCount)
	assert.NotContains(t, av.Hideable, "serious")

	res, err := svc.Query(ctx, filter.Payload{}, metadata.Ints(4))
	require.NoError(t, err)
	assert.Equal(t, 1, res.MatchedCount)
	require.IsType(t, []AdverseEvent{}, res.Entities)
	assert.Equal(t, "Rash", res.Entities.([]AdverseEvent)[0].Term)
}

func TestAdverseEvents_ExcludedActions(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, dataset.Save(ctx, store, "ae.msgpack", adverseEvents()))

	e, _ := Lookup(AdverseEventEntity)
	svc, err := e.Open(ctx, store, "ae.msgpack")
	require.NoError(t, err)
	defer svc.Close()

	sel := AdverseEventSchema.New()
	require.NoError(t, sel.Set("excluded_actions", filter.NewInverseMultiValueSetFilter(metadata.String("Drug Withdrawn"))))

	res, err := svc.Query(ctx, sel.Payload(), nil)
	require.NoError(t, err)
	// event 4 has no actions and is excluded with them
	assert.Equal(t, 2, res.MatchedCount)
}

func TestLabResults_Available(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, dataset.Save(ctx, store, "labs.msgpack.lz4", labResults()))

	e, _ := Lookup(LabResultEntity)
	svc, err := e.Open(ctx, store, "labs.msgpack.lz4")
	require.NoError(t, err)
	defer svc.Close()

	sel := LabResultSchema.New()
	require.NoError(t, sel.Set("test", filter.NewSetFilter(metadata.String("ALT"))))

	av, err := svc.Available(ctx, sel.Payload(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, av.MatchedCount)
	assert.Contains(t, av.Hideable, "abnormal")
	// no flags observed
	assert.Contains(t, av.Hideable, "flags")

	ref := av.Filters.Fields["reference"]
	require.Len(t, ref.Entries, 2)
	assert.True(t, metadata.Equal(metadata.String("high"), ref.Entries[0].Key))
	assert.True(t, metadata.Equal(metadata.String("low"), ref.Entries[1].Key))
	require.NotNil(t, ref.Entries[1].Filter.From)
	assert.True(t, metadata.Equal(metadata.Float(7), *ref.Entries[1].Filter.From))

	value := av.Filters.Fields["value"]
	require.NotNil(t, value.From)
	assert.True(t, metadata.Equal(metadata.Float(22), *value.From))
	assert.True(t, metadata.Equal(metadata.Float(31.5), *value.To))
}

func TestSafetyView(t *testing.T) {
	v := SafetyView(nil, nil)
	assert.True(t, v.IsEmpty())
	assert.Zero(t, v.CountValid())

	_, err := v.Compile(nil)
	assert.ErrorIs(t, err, filter.ErrUnsupported)

	hideable := v.HideableFieldNames(AdverseEventHideRules, LabResultHideRules)
	assert.Contains(t, hideable, "adverse-events.term")
	assert.Contains(t, hideable, "lab-results.reference")
}
