// Package filter compiles declarative filter sets into query predicates and
// recomputes the filter options still available in a data collection.
//
// # Variants
//
// Every field of an entity is bound to exactly one of five filter variants:
//
//   - SetFilter: scalar value is one of a set
//   - RangeFilter: scalar value lies within inclusive bounds
//   - MultiValueSetFilter: any element of a collection is in a set
//   - InverseMultiValueSetFilter: negation of the above
//   - MapFilter: a Set or Range sub-filter per key of a map attribute
//
// The variant set is closed. The compiler matches it exhaustively and reports
// anything else as ErrUnknownKind.
//
// # Schemas
//
// A Schema is the static field registry of one entity type:
//
//	var schema = filter.MustSchema("adverse-event", aeID,
//		filter.SetField("severity", aeSeverity),
//		filter.RangeField("onset", aeOnset),
//		filter.MultiValueField("actions", aeActions),
//		filter.MapField("grades", aeGrades, filter.KindRange),
//	)
//
// Misconfigured fields fail NewSchema with a *ConfigError.
//
// # Compiling
//
//	fs := schema.New()
//	_ = fs.Set("severity", filter.NewSetFilter(metadata.String("Severe")))
//	pred, err := fs.Compile(nil)
//
// Inactive fields contribute nothing to the conjunction. A set with no active
// field compiles to query.Everything; a disabled set compiles to query.Nothing.
//
// # Widening
//
// Schema.Widen folds every entity's values into fresh filters. The fold is a
// parallel partition/combine reduce; widening and merging are associative and
// commutative, so the result is independent of chunking and order.
package filter
