// Package testutil provides testing utilities for trialfacet.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded RNG, a synthetic Subject entity with projections for
// every attribute shape, and brute-force predicate evaluation.
//
// # Random Entities
//
//	rng := testutil.NewRNG(seed)
//	subjects := rng.Subjects(1000)
//	shuffled := testutil.Shuffled(rng, subjects)
//
// # Ground Truth
//
//	ids := testutil.MatchingIDs(subjects, pred)
package testutil
