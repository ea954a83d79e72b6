// Package api provides the HTTP API for the application.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"norelock.dev/drumline/backend/internal/api/handlers"
	appMiddleware "norelock.dev/drumline/backend/internal/api/middleware"
	"norelock.dev/drumline/backend/internal/config"
	"norelock.dev/drumline/backend/internal/services/preview"
	"norelock.dev/drumline/backend/internal/services/system"
	"norelock.dev/drumline/backend/internal/utils"
)

// Router is the main HTTP router for the API.
type Router struct {
	*chi.Mux
	logger *utils.Logger
}

// NewRouter creates a new API router.
func NewRouter(
	previewResolver *preview.Resolver,
	healthService *system.HealthService,
	metricsService *system.MetricsService,
	cfg *config.Config,
	logger *utils.Logger,
) *Router {
	r := chi.NewRouter()
	apiLogger := logger.Named("api")

	recoveryMiddleware := appMiddleware.NewRecoveryMiddleware(apiLogger)
	loggerMiddleware := appMiddleware.NewLoggerMiddleware(apiLogger, metricsService)

	previewHandler := handlers.NewPreviewHandler(previewResolver, apiLogger)
	healthHandler := handlers.NewHealthHandler(apiLogger, healthService)

	r.Use(recoveryMiddleware.Recovery)
	r.Use(loggerMiddleware.Logger)
	if cfg.Features.EnableCORS {
		corsMiddleware := appMiddleware.NewCORSMiddleware(appMiddleware.DefaultCORSConfig(), apiLogger)
		r.Use(corsMiddleware.CORS)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Heartbeat("/ping"))

	r.Get("/health", healthHandler.Check)
	if cfg.Features.EnableMetrics && metricsService != nil {
		r.Method("GET", "/metrics", metricsService.Handler())
	}

	r.Route("/api/preview", func(r chi.Router) {
		r.Post("/resolve", previewHandler.Resolve)
		r.Delete("/cache", previewHandler.ClearCache)
	})

	return &Router{
		Mux:    r,
		logger: apiLogger,
	}
}
