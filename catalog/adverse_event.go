package catalog

import (
	"time"

	"github.com/hupe1980/trialfacet/filter"
	"github.com/hupe1980/trialfacet/metadata"
	"github.com/hupe1980/trialfacet/query"
)

// AdverseEvent is one reported adverse event of a trial subject.
type AdverseEvent struct {
	ID        int64      `json:"id" msgpack:"id"`
	SubjectID string     `json:"subjectId" msgpack:"subjectId"`
	Term      string     `json:"term" msgpack:"term"`
	Severity  *string    `json:"severity,omitempty" msgpack:"severity,omitempty"`
	Grade     *int64     `json:"grade,omitempty" msgpack:"grade,omitempty"`
	Onset     *time.Time `json:"onset,omitempty" msgpack:"onset,omitempty"`

	// Serious is "Y" or "N".
	Serious string `json:"serious" msgpack:"serious"`

	Outcomes []string `json:"outcomes,omitempty" msgpack:"outcomes,omitempty"`
	Actions  []string `json:"actions,omitempty" msgpack:"actions,omitempty"`

	// Relatedness maps a study drug to the investigator's causality assessment.
	Relatedness map[string]string `json:"relatedness,omitempty" msgpack:"relatedness,omitempty"`
}

// AdverseEventEntity is the entity name adverse events are registered under.
const AdverseEventEntity = "adverse-events"

// Adverse event attributes.
var (
	AdverseEventID = query.Scalar[AdverseEvent]{Name: "id", Get: func(e AdverseEvent) metadata.Value {
		return metadata.Int(e.ID)
	}}
	AdverseEventSubject = query.Scalar[AdverseEvent]{Name: "subject_id", Get: func(e AdverseEvent) metadata.Value {
		return metadata.String(e.SubjectID)
	}}
	AdverseEventTerm = query.Scalar[AdverseEvent]{Name: "term", Get: func(e AdverseEvent) metadata.Value {
		return metadata.String(e.Term)
	}}
	AdverseEventSeverity = query.Scalar[AdverseEvent]{Name: "severity", Get: func(e AdverseEvent) metadata.Value {
		return optString(e.Severity)
	}}
	AdverseEventGrade = query.Scalar[AdverseEvent]{Name: "grade", Get: func(e AdverseEvent) metadata.Value {
		return optInt(e.Grade)
	}}
	AdverseEventOnset = query.Scalar[AdverseEvent]{Name: "onset", Get: func(e AdverseEvent) metadata.Value {
		return optTime(e.Onset)
	}}
	AdverseEventSerious = query.Scalar[AdverseEvent]{Name: "serious", Get: func(e AdverseEvent) metadata.Value {
		if e.Serious == "" {
			return metadata.Null()
		}
		return metadata.String(e.Serious)
	}}
	AdverseEventOutcomes = query.Collection[AdverseEvent]{Name: "outcomes", Get: func(e AdverseEvent) []metadata.Value {
		return metadata.Strings(e.Outcomes...)
	}}
	AdverseEventActions = query.Collection[AdverseEvent]{Name: "actions", Get: func(e AdverseEvent) []metadata.Value {
		return metadata.Strings(e.Actions...)
	}}
	AdverseEventRelatedness = query.Mapping[AdverseEvent]{Name: "relatedness", Get: func(e AdverseEvent) []metadata.Entry {
		return stringEntries(e.Relatedness)
	}}
)

// AdverseEventSchema declares the filterable fields of adverse events.
//
// "excluded_actions" selects events for which none of the chosen actions
// were taken.
var AdverseEventSchema = filter.MustSchema(AdverseEventEntity, AdverseEventID,
	filter.SetField("subject", AdverseEventSubject),
	filter.SetField("term", AdverseEventTerm),
	filter.SetField("severity", AdverseEventSeverity),
	filter.RangeField("grade", AdverseEventGrade),
	filter.RangeField("onset", AdverseEventOnset),
	filter.SetField("serious", AdverseEventSerious),
	filter.MultiValueField("outcomes", AdverseEventOutcomes),
	filter.InverseMultiValueField("excluded_actions", AdverseEventActions),
	filter.MapField("relatedness", AdverseEventRelatedness, filter.KindSet),
)

// AdverseEventHideRules hides the seriousness filter when no serious event is left.
var AdverseEventHideRules = filter.HideRules[AdverseEvent]{
	"serious": filter.OnlyValues[AdverseEvent]("serious", "No", "N"),
}

// AdverseEventColumns maps attributes onto the columns of the adverse event table.
var AdverseEventColumns = map[string]string{
	"id":         "ae_id",
	"subject_id": "usubjid",
	"term":       "aeterm",
	"severity":   "aesev",
	"grade":      "aetoxgr",
	"onset":      "aestdtc",
	"serious":    "aeser",
	"outcomes":   "aeout",
	"actions":    "aeacn",
}
