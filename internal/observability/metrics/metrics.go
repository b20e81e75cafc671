// Package metrics exposes Prometheus instruments scraped via /metrics.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics instruments the HTTP surface.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fizzlog_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fizzlog_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

func (m *HTTPMetrics) Observe(route, method, status string, seconds float64) {
	if m == nil {
		return
	}
	if strings.TrimSpace(route) == "" {
		route = "unknown"
	}
	m.requests.WithLabelValues(route, method, status).Inc()
	m.duration.WithLabelValues(route).Observe(seconds)
}

// Metrics exposes application-level instruments.
type Metrics struct {
	logsCreated *prometheus.CounterVec
	importRows  *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		logsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fizzlog_consumption_logs_total",
			Help: "Consumption log entries created by bottle size.",
		}, []string{"bottle_size"}),
		importRows: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fizzlog_import_rows_total",
			Help: "CSV import rows by outcome.",
		}, []string{"outcome"}),
	}
}

// RecordLogCreated increments consumption log counts.
func (m *Metrics) RecordLogCreated(bottleSize string) {
	if m == nil {
		return
	}
	m.logsCreated.WithLabelValues(strings.TrimSpace(bottleSize)).Inc()
}

// RecordImportRow increments import row counts; outcome is "imported" or "failed".
func (m *Metrics) RecordImportRow(outcome string) {
	if m == nil {
		return
	}
	m.importRows.WithLabelValues(strings.TrimSpace(outcome)).Inc()
}
