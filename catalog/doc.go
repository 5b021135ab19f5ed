// Package catalog declares the sample entity types served by trialfacet and
// their static filter schemas.
//
// Two entity types are provided: adverse events and lab results. Together
// they use every filter variant. Each type is registered under its entity
// name, so type-erased callers such as the CLI can look them up:
//
//	e, ok := catalog.Lookup("adverse-events")
//	svc, err := e.Open(ctx, store, "ae.json.zst")
//	out, err := svc.Available(ctx, payload, nil)
package catalog
