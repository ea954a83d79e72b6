// Package system provides system-level services for monitoring and maintenance.
package system

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"norelock.dev/drumline/backend/internal/utils"
)

// MetricsService provides application metrics collection functionality.
type MetricsService struct {
	logger *utils.Logger

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Probe metrics
	probesTotal    *prometheus.CounterVec
	probeCacheHits prometheus.Counter

	// Resolution metrics
	resolutionsTotal *prometheus.CounterVec
}

// NewMetricsService creates a new metrics service.
func NewMetricsService(logger *utils.Logger) *MetricsService {
	m := &MetricsService{
		logger: logger.Named("metrics_service"),
	}

	m.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drumline_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drumline_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	m.probesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drumline_preview_probes_total",
			Help: "Availability probe requests by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	m.probeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "drumline_preview_probe_cache_hits_total",
			Help: "Availability probes answered from the settled cache",
		},
	)

	m.resolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drumline_preview_resolutions_total",
			Help: "Preview resolutions by outcome",
		},
		[]string{"outcome"},
	)

	return m
}

// Handler returns an HTTP handler for exposing metrics.
func (m *MetricsService) Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records a completed HTTP request.
func (m *MetricsService) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordProbe records an availability probe request and its outcome.
func (m *MetricsService) RecordProbe(method, outcome string) {
	m.probesTotal.WithLabelValues(method, outcome).Inc()
}

// RecordProbeCacheHit records a probe answered without a network request.
func (m *MetricsService) RecordProbeCacheHit() {
	m.probeCacheHits.Inc()
}

// RecordResolution records the outcome of a preview resolution.
func (m *MetricsService) RecordResolution(outcome string) {
	m.resolutionsTotal.WithLabelValues(outcome).Inc()
}
