// Package store is a reference query engine for compiled predicates.
//
// It evaluates query.Predicate trees over an in-memory collection with
// roaring-bitmap posting lists, so AND/OR/NOT become bitmap intersections,
// unions and differences. Range predicates binary-search the sorted distinct
// values of an attribute.
//
//	c, _ := store.New(entities)
//	matched, err := c.Select(pred)
//
// Scan evaluates the same predicate with Match and is the ground truth the
// index path is tested against.
package store
