// Package prometheus exports trialfacet metrics through prometheus/client_golang.
//
//	c := prometheus.NewCollector(prom.DefaultRegisterer)
//	f, _ := trialfacet.New(schema, events, trialfacet.WithMetricsCollector(c))
//	http.Handle("/metrics", promhttp.Handler())
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/trialfacet"
)

// Collector implements trialfacet.MetricsCollector.
type Collector struct {
	opLatency *prometheus.HistogramVec
	matched   *prometheus.HistogramVec
	requests  *prometheus.CounterVec
	folded    *prometheus.CounterVec
	widen     *prometheus.HistogramVec
}

var _ trialfacet.MetricsCollector = (*Collector)(nil)

// entityBuckets cover selections from a handful of events to whole studies.
var entityBuckets = prometheus.ExponentialBuckets(1, 4, 10)

// NewCollector creates the metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trialfacet_operation_latency_seconds",
			Help:    "Latency of query and available-filters operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "entity", "status"}),
		matched: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trialfacet_matched_entities",
			Help:    "Number of entities selected per request",
			Buckets: entityBuckets,
		}, []string{"op", "entity"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trialfacet_requests_total",
			Help: "Total requests processed",
		}, []string{"op", "entity", "status"}),
		folded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trialfacet_widened_entities_total",
			Help: "Total entities folded into available filters",
		}, []string{"entity"}),
		widen: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trialfacet_widen_latency_seconds",
			Help:    "Latency of the widening fold alone",
			Buckets: prometheus.DefBuckets,
		}, []string{"entity"}),
	}

	if reg != nil {
		reg.MustRegister(c.opLatency, c.matched, c.requests, c.folded, c.widen)
	}
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) record(op, entity string, matched int, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(op, entity, s).Observe(d.Seconds())
	c.requests.WithLabelValues(op, entity, s).Inc()
	if err == nil {
		c.matched.WithLabelValues(op, entity).Observe(float64(matched))
	}
}

func (c *Collector) RecordQuery(entity string, matched int, d time.Duration, err error) {
	c.record("query", entity, matched, d, err)
}

func (c *Collector) RecordAvailable(entity string, matched int, d time.Duration, err error) {
	c.record("available", entity, matched, d, err)
}

func (c *Collector) RecordWiden(entity string, entities int, d time.Duration) {
	c.folded.WithLabelValues(entity).Add(float64(entities))
	c.widen.WithLabelValues(entity).Observe(d.Seconds())
}
