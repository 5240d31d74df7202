// Package metrics provides Prometheus metrics for the geosim services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by a geosim service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	rateLimited         *prometheus.CounterVec

	// Business Metrics
	calculations *prometheus.CounterVec
	serviceInfo  *prometheus.GaugeVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "geosim",
		subsystem:        "service",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint, method and status code",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_in_flight",
		Help:        "Number of HTTP requests currently being served",
		ConstLabels: m.constLabels,
	})

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_type_total",
			Help:        "Errors by type and severity",
			ConstLabels: m.constLabels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_endpoint_total",
			Help:        "Errors by endpoint, method and error type",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.rateLimited = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "rate_limited_total",
			Help:        "Requests rejected by the rate limiter",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint"},
	)

	m.calculations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "calculations_total",
			Help:        "Weight calculations served, by applied multiplier",
			ConstLabels: m.constLabels,
		},
		[]string{"multiplier"},
	)

	m.serviceInfo = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "info",
			Help:        "Static service identity; always 1",
			ConstLabels: m.constLabels,
		},
		[]string{"service", "version", "client"},
	)
}

// RecordHTTPRequest increments the request counter.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records request latency in milliseconds.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// AddInFlight adjusts the in-flight gauge by delta.
func (m *Manager) AddInFlight(delta float64) {
	m.httpInFlight.Add(delta)
}

// RecordErrorByType records an error with type and severity labels.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordRateLimited counts a request rejected by the limiter.
func (m *Manager) RecordRateLimited(endpoint string) {
	m.rateLimited.WithLabelValues(endpoint).Inc()
}

// RecordCalculation counts a served calculation for the applied multiplier.
func (m *Manager) RecordCalculation(multiplier string) {
	m.calculations.WithLabelValues(multiplier).Inc()
}

// SetServiceInfo publishes the identity of the running service.
func (m *Manager) SetServiceInfo(service, version, client string) {
	m.serviceInfo.WithLabelValues(service, version, client).Set(1)
}

// Package-level helpers delegate to the global manager.

// RecordHTTPRequest increments the global request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration records request latency on the global manager.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, durationMs)
}

// AddInFlight adjusts the global in-flight gauge.
func AddInFlight(delta float64) {
	globalManager.AddInFlight(delta)
}

// RecordErrorByType records an error on the global manager.
func RecordErrorByType(errorType, severity string) {
	globalManager.RecordErrorByType(errorType, severity)
}

// RecordErrorByEndpoint records an error on the global manager.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// RecordRateLimited counts a rejected request on the global manager.
func RecordRateLimited(endpoint string) {
	globalManager.RecordRateLimited(endpoint)
}

// RecordCalculation counts a calculation on the global manager.
func RecordCalculation(multiplier string) {
	globalManager.RecordCalculation(multiplier)
}

// SetServiceInfo publishes service identity on the global manager.
func SetServiceInfo(service, version, client string) {
	globalManager.SetServiceInfo(service, version, client)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
