package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"norelock.dev/drumline/backend/internal/config"
	"norelock.dev/drumline/backend/internal/services/preview"
	"norelock.dev/drumline/backend/internal/services/system"
	"norelock.dev/drumline/backend/internal/utils"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	logger := &utils.Logger{Logger: zap.NewNop()}
	prober := preview.NewProber(logger)
	resolver := preview.NewResolver(prober, logger)
	health := system.NewHealthService(logger, system.HealthServiceConfig{
		Version:     "test",
		Environment: "test",
	})

	cfg := &config.Config{}
	cfg.Features.EnableCORS = true

	return NewRouter(resolver, health, nil, cfg, logger)
}

func TestRouterEndpoints(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"heartbeat", http.MethodGet, "/ping", "", http.StatusOK},
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics disabled", http.MethodGet, "/metrics", "", http.StatusNotFound},
		{"resolve muted", http.MethodPost, "/api/preview/resolve", `{"id":"song-1","previewMusic":"muted"}`, http.StatusNotFound},
		{"resolve resident", http.MethodPost, "/api/preview/resolve", `{"id":"song-1","previewMusic":"data:audio/ogg;base64,T2dnUw=="}`, http.StatusOK},
		{"clear cache", http.MethodDelete, "/api/preview/cache", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, w.Code, tt.want)
			}
		})
	}
}

func TestRouterCORSHeaders(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/preview/resolve", nil)
	req.Header.Set("Origin", "https://play.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("Access-Control-Allow-Origin header missing on preflight")
	}
}
