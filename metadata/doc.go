// Package metadata provides the scalar value model used across trialfacet.
//
// # Values
//
// A Value is one of:
//
//   - Null: metadata.Null() (also the zero Value)
//   - Int: metadata.Int(42)
//   - Float: metadata.Float(3.5)
//   - String: metadata.String("Headache")
//   - Bool: metadata.Bool(true)
//   - Time: metadata.Time(t) or metadata.Date(2024, time.March, 1)
//
// # Ordering
//
// Compare defines a total order: numbers (ints and floats compare numerically),
// then strings, booleans, times, and nulls last. Range checks use Comparable to
// reject cross-kind comparisons.
//
// # Sets
//
// ValueSet holds unique values keyed by Value.Key. Values() returns the members
// in Compare order so that payloads and rendered predicates are deterministic.
package metadata
