// Package prometheus registers and exposes the molscope service metrics.
// Every outbound fetch attempt, extraction strategy decision, and dropped
// record is individually observable here, so no retry or fallback is
// hidden from operators.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch attempt outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeTransient = "transient"
	OutcomeRejected  = "rejected"
)

// Extraction strategy outcomes.
const (
	StrategyUsable    = "usable"
	StrategyNotUsable = "not_usable"
)

// Cache lookup results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics holds all collectors for the service, registered on a private
// registry so tests can construct isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	FetchAttempts     *prometheus.CounterVec
	FetchExhausted    prometheus.Counter
	ExtractionRuns    *prometheus.CounterVec
	RecordsDropped    prometheus.Counter
	SearchDuration    *prometheus.HistogramVec
	CacheLookups      *prometheus.CounterVec
	HTTPRequestsTotal *prometheus.CounterVec
}

// NewMetrics constructs and registers all service collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		FetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "molscope_fetch_attempts_total",
			Help: "Outbound portal fetch attempts by outcome.",
		}, []string{"outcome"}),
		FetchExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "molscope_fetch_retries_exhausted_total",
			Help: "Fetches that failed after exhausting the retry budget.",
		}),
		ExtractionRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "molscope_extraction_runs_total",
			Help: "Extraction strategy executions by strategy name and outcome.",
		}, []string{"strategy", "outcome"}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "molscope_records_dropped_total",
			Help: "Candidate records dropped during normalization.",
		}),
		SearchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "molscope_search_duration_seconds",
			Help:    "End-to-end pipeline duration by operation.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "molscope_cache_lookups_total",
			Help: "Search-result cache lookups by result.",
		}, []string{"result"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "molscope_http_requests_total",
			Help: "HTTP requests by method, route, and status class.",
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.FetchAttempts,
		m.FetchExhausted,
		m.ExtractionRuns,
		m.RecordsDropped,
		m.SearchDuration,
		m.CacheLookups,
		m.HTTPRequestsTotal,
	)
	return m
}

// ObserveSearch records one pipeline execution duration.
func (m *Metrics) ObserveSearch(operation string, elapsed time.Duration) {
	m.SearchDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler returns the /metrics endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
