// Package metrics provides Prometheus metrics for the meme chat service
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Catalog metrics
	CatalogSize       prometheus.Gauge
	CatalogLoadsTotal *prometheus.CounterVec

	// Matching metrics
	LookupsTotal         *prometheus.CounterVec
	ReconciliationsTotal *prometheus.CounterVec

	// Language model metrics
	LLMRequestsTotal   *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates all metrics on a dedicated registry, so several instances
// (one per test, for example) never collide on the global one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mygomeme_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mygomeme_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.CatalogSize = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "mygomeme_catalog_entries",
			Help: "Number of memes in the current catalog",
		},
	)

	m.CatalogLoadsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mygomeme_catalog_loads_total",
			Help: "Catalog load attempts by source and outcome",
		},
		[]string{"source", "status"},
	)

	m.LookupsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mygomeme_lookups_total",
			Help: "Lookup endpoint results",
		},
		[]string{"result"},
	)

	m.ReconciliationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mygomeme_reconciliations_total",
			Help: "Model answers mapped onto the catalog, by winning strategy",
		},
		[]string{"strategy"},
	)

	m.LLMRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mygomeme_llm_requests_total",
			Help: "Language model calls by provider and outcome",
		},
		[]string{"provider", "status"},
	)

	m.LLMRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mygomeme_llm_request_duration_seconds",
			Help:    "Duration of language model calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	return m
}

// RecordHTTPRequest records a finished HTTP request
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordCatalogLoad records a catalog load attempt and, on success, the new size
func (m *Metrics) RecordCatalogLoad(source string, size int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.CatalogLoadsTotal.WithLabelValues(source, "error").Inc()
		return
	}
	m.CatalogLoadsTotal.WithLabelValues(source, "ok").Inc()
	m.CatalogSize.Set(float64(size))
}

// RecordLookup records a lookup hit or miss
func (m *Metrics) RecordLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.LookupsTotal.WithLabelValues(result).Inc()
}

// RecordReconciliation records the strategy that matched a model answer, or "none"
func (m *Metrics) RecordReconciliation(strategy string) {
	if m == nil {
		return
	}
	if strategy == "" {
		strategy = "none"
	}
	m.ReconciliationsTotal.WithLabelValues(strategy).Inc()
}

// RecordLLMRequest records a language model call
func (m *Metrics) RecordLLMRequest(provider string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.LLMRequestsTotal.WithLabelValues(provider, status).Inc()
	m.LLMRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// Handler returns the exposition handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests and custom exporters
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
