// Package middleware contains HTTP middleware for the API.
package middleware

import (
	"net/http"
	"time"

	"norelock.dev/drumline/backend/internal/services/system"
	"norelock.dev/drumline/backend/internal/utils"
)

// LoggerMiddleware handles request logging and HTTP metrics for the API.
type LoggerMiddleware struct {
	logger  *utils.Logger
	metrics *system.MetricsService
}

// NewLoggerMiddleware creates a new logger middleware. metrics may be nil.
func NewLoggerMiddleware(logger *utils.Logger, metrics *system.MetricsService) *LoggerMiddleware {
	return &LoggerMiddleware{
		logger:  logger.Named("http"),
		metrics: metrics,
	}
}

// Logger is a middleware that logs HTTP requests.
func (m *LoggerMiddleware) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)

		m.logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration", duration.String(),
			"ip", utils.GetRequestIP(r),
		)

		if m.metrics != nil {
			m.metrics.RecordHTTPRequest(r.Method, r.URL.Path, rw.statusCode, duration)
		}
	})
}

// responseWriter is a wrapper around http.ResponseWriter that captures the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code and calls the underlying ResponseWriter's WriteHeader.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
