package trialfacet

import (
	"log/slog"

	"github.com/hupe1980/trialfacet/filter"
	"github.com/hupe1980/trialfacet/internal/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	parallelism      int
	chunkSize        int
	hideRules        any // filter.HideRules[E], checked by New
	admission        resource.Config
	resultCacheSize  int
}

// Option configures a Facets service.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &trialfacet.BasicMetricsCollector{}
//	f, _ := trialfacet.New(schema, events, trialfacet.WithMetricsCollector(metrics))
//	// ... use f ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := trialfacet.NewJSONLogger(slog.LevelInfo)
//	f, _ := trialfacet.New(schema, events, trialfacet.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithParallelism caps the number of workers used by the widening fold.
// Zero means GOMAXPROCS; one forces a sequential fold.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithChunkSize sets the number of entities each widening worker folds before
// results are combined. Zero means filter.DefaultChunkSize.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// WithHideRules registers domain-specific hide rules evaluated on the
// available filters. The rules must be declared for the entity type the
// service is built for; New fails with ErrInvalidOption otherwise.
func WithHideRules[E any](rules filter.HideRules[E]) Option {
	return func(o *options) {
		o.hideRules = rules
	}
}

// WithMaxConcurrentFolds caps the number of Available calls folding at once.
// Further calls wait for a free slot or their context.
func WithMaxConcurrentFolds(n int) Option {
	return func(o *options) {
		o.admission.MaxConcurrentFolds = int64(n)
	}
}

// WithMaxInFlightEntities caps the total number of selected entities being
// folded across concurrent Available calls. A call whose selection does not
// fit fails fast with ErrOverloaded.
func WithMaxInFlightEntities(n int64) Option {
	return func(o *options) {
		o.admission.MaxInFlightEntities = n
	}
}

// WithRateLimit limits Query and Available calls to rps per second with the
// given burst. Calls wait for a token or their context.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		o.admission.RequestsPerSecond = rps
		o.admission.Burst = burst
	}
}

// WithResultCache keeps the available filters of up to n distinct selections.
// Datasets never change after New, so cached results stay valid until evicted.
// Zero disables the cache.
func WithResultCache(n int) Option {
	return func(o *options) {
		o.resultCacheSize = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o options) widenOptions(wo *filter.WidenOptions) {
	wo.Parallelism = o.parallelism
	wo.ChunkSize = o.chunkSize
}
