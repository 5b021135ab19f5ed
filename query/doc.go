// Package query provides the predicate representation handed to query engines.
//
// A Predicate is built from a closed set of nodes:
//
//	And, Or, Not, None                 - boolean structure
//	In, Between, NotNull, IsNull       - scalar attributes
//	AnyIn, NoValues                    - collection attributes
//
// Attributes are plain accessors (Scalar, Collection, Mapping). A Mapping
// derives per-key projections with At (value-maps) and All (multimaps).
//
// Predicates can be evaluated in-process with Match, rendered for logs with
// String, or translated into a DuckDB WHERE clause with EncodeSQL.
package query
