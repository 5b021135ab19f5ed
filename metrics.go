package trialfacet

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see observability/prometheus for a ready-made implementation.
type MetricsCollector interface {
	// RecordQuery is called after each query.
	// matched is the number of entities selected, err is nil if successful.
	RecordQuery(entity string, matched int, duration time.Duration, err error)

	// RecordAvailable is called after each available-filters computation.
	RecordAvailable(entity string, matched int, duration time.Duration, err error)

	// RecordWiden is called after each widening fold with the number of
	// entities folded and the time the fold alone took.
	RecordWiden(entity string, entities int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordQuery(string, int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordAvailable(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordWiden(string, int, time.Duration)            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	QueryCount          atomic.Int64
	QueryErrors         atomic.Int64
	QueryTotalNanos     atomic.Int64
	QueryMatched        atomic.Int64
	AvailableCount      atomic.Int64
	AvailableErrors     atomic.Int64
	AvailableTotalNanos atomic.Int64
	WidenCount          atomic.Int64
	WidenEntities       atomic.Int64
	WidenTotalNanos     atomic.Int64
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(_ string, matched int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	b.QueryMatched.Add(int64(matched))
}

// RecordAvailable implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAvailable(_ string, _ int, duration time.Duration, err error) {
	b.AvailableCount.Add(1)
	b.AvailableTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AvailableErrors.Add(1)
	}
}

// RecordWiden implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWiden(_ string, entities int, duration time.Duration) {
	b.WidenCount.Add(1)
	b.WidenEntities.Add(int64(entities))
	b.WidenTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		QueryCount:        b.QueryCount.Load(),
		QueryErrors:       b.QueryErrors.Load(),
		QueryAvgNanos:     avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		QueryMatched:      b.QueryMatched.Load(),
		AvailableCount:    b.AvailableCount.Load(),
		AvailableErrors:   b.AvailableErrors.Load(),
		AvailableAvgNanos: avg(b.AvailableTotalNanos.Load(), b.AvailableCount.Load()),
		WidenCount:        b.WidenCount.Load(),
		WidenEntities:     b.WidenEntities.Load(),
		WidenAvgNanos:     avg(b.WidenTotalNanos.Load(), b.WidenCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	QueryCount        int64
	QueryErrors       int64
	QueryAvgNanos     int64
	QueryMatched      int64
	AvailableCount    int64
	AvailableErrors   int64
	AvailableAvgNanos int64
	WidenCount        int64
	WidenEntities     int64
	WidenAvgNanos     int64
}
