package catalog

import (
	"time"

	"github.com/hupe1980/trialfacet/filter"
	"github.com/hupe1980/trialfacet/metadata"
	"github.com/hupe1980/trialfacet/query"
)

// LabResult is one laboratory measurement of a trial subject.
type LabResult struct {
	ID        int64      `json:"id" msgpack:"id"`
	SubjectID string     `json:"subjectId" msgpack:"subjectId"`
	Test      string     `json:"test" msgpack:"test"`
	Value     *float64   `json:"value,omitempty" msgpack:"value,omitempty"`
	Visit     *int64     `json:"visit,omitempty" msgpack:"visit,omitempty"`
	Collected *time.Time `json:"collected,omitempty" msgpack:"collected,omitempty"`

	// Abnormal is "Y" or "N".
	Abnormal string `json:"abnormal" msgpack:"abnormal"`

	// Flags are reference range indicators such as "H", "L" or "HH".
	Flags []string `json:"flags,omitempty" msgpack:"flags,omitempty"`

	// Panels the test was ordered with.
	Panels []string `json:"panels,omitempty" msgpack:"panels,omitempty"`

	// Reference holds the reference range bounds, keyed "low" and "high".
	Reference map[string]float64 `json:"reference,omitempty" msgpack:"reference,omitempty"`
}

// LabResultEntity is the entity name lab results are registered under.
const LabResultEntity = "lab-results"

// Lab result attributes.
var (
	LabResultID = query.Scalar[LabResult]{Name: "id", Get: func(r LabResult) metadata.Value {
		return metadata.Int(r.ID)
	}}
	LabResultSubject = query.Scalar[LabResult]{Name: "subject_id", Get: func(r LabResult) metadata.Value {
		return metadata.String(r.SubjectID)
	}}
	LabResultTest = query.Scalar[LabResult]{Name: "test", Get: func(r LabResult) metadata.Value {
		return metadata.String(r.Test)
	}}
	LabResultValue = query.Scalar[LabResult]{Name: "value", Get: func(r LabResult) metadata.Value {
		return optFloat(r.Value)
	}}
	LabResultVisit = query.Scalar[LabResult]{Name: "visit", Get: func(r LabResult) metadata.Value {
		return optInt(r.Visit)
	}}
	LabResultCollected = query.Scalar[LabResult]{Name: "collected", Get: func(r LabResult) metadata.Value {
		return optTime(r.Collected)
	}}
	LabResultAbnormal = query.Scalar[LabResult]{Name: "abnormal", Get: func(r LabResult) metadata.Value {
		if r.Abnormal == "" {
			return metadata.Null()
		}
		return metadata.String(r.Abnormal)
	}}
	LabResultFlags = query.Collection[LabResult]{Name: "flags", Get: func(r LabResult) []metadata.Value {
		return metadata.Strings(r.Flags...)
	}}
	LabResultPanels = query.Collection[LabResult]{Name: "panels", Get: func(r LabResult) []metadata.Value {
		return metadata.Strings(r.Panels...)
	}}
	LabResultReference = query.Mapping[LabResult]{Name: "reference", Get: func(r LabResult) []metadata.Entry {
		return floatEntries(r.Reference)
	}}
)

// LabResultSchema declares the filterable fields of lab results.
var LabResultSchema = filter.MustSchema(LabResultEntity, LabResultID,
	filter.SetField("subject", LabResultSubject),
	filter.SetField("test", LabResultTest),
	filter.RangeField("value", LabResultValue),
	filter.RangeField("visit", LabResultVisit),
	filter.RangeField("collected", LabResultCollected),
	filter.SetField("abnormal", LabResultAbnormal),
	filter.MultiValueField("flags", LabResultFlags),
	filter.InverseMultiValueField("excluded_panels", LabResultPanels),
	filter.MapField("reference", LabResultReference, filter.KindRange),
)

// LabResultHideRules hides the abnormality filter when only normal results are left.
var LabResultHideRules = filter.HideRules[LabResult]{
	"abnormal": filter.OnlyValues[LabResult]("abnormal", "No", "N"),
}

// LabResultColumns maps attributes onto the columns of the lab result table.
var LabResultColumns = map[string]string{
	"id":         "lb_id",
	"subject_id": "usubjid",
	"test":       "lbtestcd",
	"value":      "lbstresn",
	"visit":      "visitnum",
	"collected":  "lbdtc",
	"abnormal":   "lbnrind",
	"reference":  "lbornr",
}

// SafetyView pairs adverse event and lab result selections for the combined
// safety listing. The halves are compiled separately.
func SafetyView(ae *filter.FilterSet[AdverseEvent], lab *filter.FilterSet[LabResult]) *filter.Composite[AdverseEvent, LabResult] {
	if ae == nil {
		ae = AdverseEventSchema.New()
	}
	if lab == nil {
		lab = LabResultSchema.New()
	}
	return filter.NewComposite(ae, lab)
}
