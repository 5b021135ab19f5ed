// Package trialfacet provides faceted filtering for clinical trial data.
//
// A client sends a set of filters for one entity type (adverse events, lab
// results, ...). Trialfacet compiles the filters into a single predicate,
// evaluates it over the dataset and folds the selected entities back into a
// fresh filter set listing the options that are still available.
//
// # Quick Start
//
//	schema := filter.MustSchema("adverse-event", idAttr,
//	    filter.SetField("severity", severityAttr),
//	    filter.RangeField("onset", onsetAttr),
//	)
//	f, _ := trialfacet.New(schema, events, trialfacet.WithLogger(trialfacet.NewJSONLogger(slog.LevelInfo)))
//
//	sel := schema.New()
//	_ = sel.Set("severity", filter.NewSetFilter(metadata.String("Severe")))
//
//	res, _ := f.Query(ctx, trialfacet.Request[Event]{Filters: sel})
//	fmt.Println(res.MatchedCount, res.Predicate)
//
//	av, _ := f.Available(ctx, trialfacet.Request[Event]{Filters: sel})
//	fmt.Println(av.Filters.Payload(), av.Hideable)
//
// # Filter Variants
//
//   - Set: exact membership of a scalar value
//   - Range: closed interval over numbers or dates
//   - MultiValueSet: any element of a collection is in the set
//   - InverseMultiValueSet: negation of MultiValueSet
//   - Map: per-key Set or Range sub-filters over map attributes
//
// Each variant carries an include-empty flag that additionally admits
// entities without a value.
//
// # Packages
//
//   - filter: variants, compiler, filter sets and the widening fold
//   - query: predicate trees, String and SQL rendering
//   - store: roaring-bitmap reference engine
//   - catalog: sample entity types
//   - codec, blobstore, internal/dataset: loading datasets and payloads
//   - observability/prometheus: MetricsCollector backed by Prometheus
package trialfacet
