package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"norelock.dev/drumline/backend/internal/api"
	"norelock.dev/drumline/backend/internal/config"
	"norelock.dev/drumline/backend/internal/services/preview"
	"norelock.dev/drumline/backend/internal/services/system"
	"norelock.dev/drumline/backend/internal/utils"
)

const version = "1.0.0"

func main() {
	// Create a context that will be canceled on interrupt signal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("Received shutdown signal")
		cancel()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(utils.LoggerOptions{
		Development:      cfg.Environment == "development",
		Level:            cfg.Logging.Level,
		OutputPaths:      cfg.Logging.OutputPaths,
		ErrorOutputPaths: cfg.Logging.ErrorOutputPaths,
	})
	defer logger.Sync()

	logger.Info("Starting drumline preview server", "environment", cfg.Environment, "version", version)

	var metrics *system.MetricsService
	if cfg.Features.EnableMetrics {
		metrics = system.NewMetricsService(logger)
	}

	// One probe client for the whole process; its timeout is the only
	// timeout the prober has.
	probeClient := &http.Client{
		Timeout: cfg.Probe.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:    cfg.Probe.MaxIdleConns,
			IdleConnTimeout: cfg.Probe.IdleConnTimeout,
		},
	}

	proberOpts := []preview.ProberOption{preview.WithHTTPClient(probeClient)}
	resolverOpts := []preview.ResolverOption{
		preview.WithCandidateFilenames(cfg.Preview.CandidateFilenames),
		preview.WithSongsBaseURL(cfg.Preview.SongsBaseURL),
	}
	if metrics != nil {
		proberOpts = append(proberOpts, preview.WithProbeMetrics(metrics))
		resolverOpts = append(resolverOpts, preview.WithResolverMetrics(metrics))
	}

	prober := preview.NewProber(logger, proberOpts...)
	resolver := preview.NewResolver(prober, logger, resolverOpts...)

	healthService := system.NewHealthService(logger, system.HealthServiceConfig{
		Version:     version,
		Environment: cfg.Environment,
	})
	if base := cfg.Preview.SongsBaseURL; base != "" {
		healthService.RegisterCheck("songs_origin", func(ctx context.Context) error {
			req, err := http.NewRequestWithContext(ctx, http.MethodHead, base, nil)
			if err != nil {
				return err
			}
			resp, err := probeClient.Do(req)
			if err != nil {
				return err
			}
			_ = resp.Body.Close()
			if resp.StatusCode >= 500 {
				return fmt.Errorf("songs origin returned %d", resp.StatusCode)
			}
			return nil
		})
	}
	healthService.Start(ctx)

	router := api.NewRouter(resolver, healthService, metrics, cfg, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down server cleanly", err)
	}
	logger.Info("Server stopped")
}
