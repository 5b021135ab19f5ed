// Package cache provides a bounded LRU cache.
//
// It backs the available-filters result cache: datasets are immutable once
// loaded, so the widened filters of a selection can be reused until they are
// evicted. Keys are the deterministic renderings of compiled predicates.
package cache
