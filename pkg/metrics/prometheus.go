// Package metrics provides Prometheus metrics for the ranqr engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core business metrics
	matchupsServed   prometheus.Counter
	outcomesRecorded prometheus.Counter
	outcomesRejected prometheus.Counter
	tiesRecorded     prometheus.Counter
	selectorLatency  prometheus.Histogram

	// Operational health metrics
	collectionsTotal prometheus.Gauge
	itemsTotal       prometheus.Gauge
	comparisonsTotal prometheus.Counter

	// Repository metrics
	repositoryUpdateLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ranqr",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.matchupsServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matchups_served_total",
		Help:      "Total number of matchups proposed to callers",
	})

	m.outcomesRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "outcomes_recorded_total",
		Help:      "Total number of outcomes applied to collection state",
	})

	m.outcomesRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "outcomes_rejected_total",
		Help:      "Total number of outcome submissions rejected by validation",
	})

	m.tiesRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ties_recorded_total",
		Help:      "Total number of tie outcomes recorded",
	})

	m.selectorLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "selector_latency_milliseconds",
		Help:      "Histogram of matchup selection latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.collectionsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "collections_total",
		Help:      "Current number of collections",
	})

	m.itemsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "items_total",
		Help:      "Current number of items across all collections",
	})

	m.comparisonsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "comparisons_total",
		Help:      "Total number of comparison records appended",
	})

	m.repositoryUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_update_latency_milliseconds",
		Help:      "Histogram of repository write latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.repositoryQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_query_latency_milliseconds",
		Help:      "Histogram of repository read latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method, and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Total errors by component and error type",
	}, []string{"component", "error_type"})
}

// Package-level helpers recording on the global manager.

// RecordMatchupServed increments the served-matchup counter.
func RecordMatchupServed() {
	globalManager.matchupsServed.Inc()
}

// RecordOutcomeRecorded increments the applied-outcome counter.
func RecordOutcomeRecorded() {
	globalManager.outcomesRecorded.Inc()
}

// RecordOutcomeRejected increments the rejected-outcome counter.
func RecordOutcomeRejected() {
	globalManager.outcomesRejected.Inc()
}

// RecordTieRecorded increments the tie counter.
func RecordTieRecorded() {
	globalManager.tiesRecorded.Inc()
}

// RecordSelectorLatency records one matchup selection duration.
func RecordSelectorLatency(latencyMs float64) {
	globalManager.selectorLatency.Observe(latencyMs)
}

// UpdateCollectionsTotal sets the collections gauge.
func UpdateCollectionsTotal(count int) {
	globalManager.collectionsTotal.Set(float64(count))
}

// UpdateItemsTotal sets the items gauge.
func UpdateItemsTotal(count int) {
	globalManager.itemsTotal.Set(float64(count))
}

// RecordComparisonAppended increments the comparison log counter.
func RecordComparisonAppended() {
	globalManager.comparisonsTotal.Inc()
}

// RecordRepositoryUpdateLatency records one repository write duration.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	globalManager.repositoryUpdateLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records one repository read duration.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent counts one error for a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom registry for the /metrics handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
