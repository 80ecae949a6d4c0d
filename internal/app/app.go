// Package app assembles the HTTP application: configuration, logging,
// services, middleware chain and routes, plus server lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fleetjobs/internal/config"
	"fleetjobs/internal/infrastructure"
	"fleetjobs/internal/ingest"
	"fleetjobs/internal/middleware"
	"fleetjobs/internal/services"
	transport "fleetjobs/internal/transport/http"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Application bundles the wired server and its dependencies.
type Application struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
}

// New loads configuration, initializes logging, wires the services and
// returns a ready-to-run application.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := services.NewMetrics(registry)

	analysisService := services.NewAnalysisService(logger, cfg.Analysis, nil, metrics)
	healthService := services.NewHealthService(logger, Version)

	router := buildRouter(cfg, logger, registry, analysisService, healthService)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{cfg: cfg, logger: logger, server: srv}, nil
}

func buildRouter(cfg *config.Config, logger *slog.Logger, registry *prometheus.Registry, analysisService transport.AnalysisService, healthService *services.HealthService) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	if cfg.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.Security.RateLimit.RPS, cfg.Security.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout, logger))

	validator := ingest.NewUploadValidator(logger, cfg.Analysis.MaxUploadBytes, cfg.Analysis.MaxUploadFiles)
	analysisHandler := transport.NewAnalysisHandler(analysisService, validator, cfg.Analysis.MaxUploadBytes, logger)
	healthHandler := transport.NewHealthHandler(healthService, logger)

	r.Route("/api", func(api chi.Router) {
		api.Mount("/analysis", analysisHandler.Routes())
		api.Mount("/health", healthHandler.Routes())
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}

// Run starts the HTTP server and blocks until the context is canceled, then
// shuts down gracefully within the configured timeout.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			slog.String("addr", a.server.Addr),
			slog.String("version", Version))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("server shutting down",
		slog.Duration("timeout", a.cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("server stopped")
	return nil
}
