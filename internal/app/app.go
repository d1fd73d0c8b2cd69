// Package app assembles the web server: configuration, logging, tracing,
// services, middleware chain and routes.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sgjobs/internal/config"
	"sgjobs/internal/infrastructure"
	customMiddleware "sgjobs/internal/middleware"
	"sgjobs/internal/services"
	handlers "sgjobs/internal/transport/http"
)

// Version is set at build time.
var Version = "dev"

// Application is the web server container.
type Application struct {
	Config      *config.Config
	Router      *chi.Mux
	Server      *http.Server
	DataService *services.DataService
	Logger      *slog.Logger

	shutdownTracing func(context.Context) error
}

// NewApplication wires the application from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	if err := cfg.Paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	shutdownTracing, err := infrastructure.InitTracing("sgjobs-web")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	app := &Application{
		Config:          cfg,
		DataService:     services.NewDataService(cfg, logger),
		Logger:          logger,
		shutdownTracing: shutdownTracing,
	}

	app.Router = app.buildRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

func (app *Application) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(app.Logger))
	r.Use(customMiddleware.Recoverer(app.Logger))
	if app.Config.Server.RateLimit.Enabled {
		limiter := customMiddleware.NewRateLimiter(
			app.Config.Server.RateLimit.RPS,
			app.Config.Server.RateLimit.Burst,
			app.Logger)
		r.Use(limiter.Handler)
	}

	goldHandler := handlers.NewGoldHandler(app.DataService, app.Logger)
	healthHandler := handlers.NewHealthHandler(app.DataService, app.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/health", healthHandler.Routes())
		r.Mount("/gold", goldHandler.Routes())
		r.Get("/pipeline/summary", goldHandler.GetSummary)
		r.Post("/cache/invalidate", app.handleInvalidate)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// handleInvalidate drops the artifact cache, picking up a fresh pipeline
// run without restarting the server.
func (app *Application) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	app.DataService.Invalidate()
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"cache invalidated"}`))
}

// Start runs the HTTP server until the listener fails or Shutdown is
// called.
func (app *Application) Start() error {
	app.Logger.Info("http server listening", slog.String("addr", app.Server.Addr))
	if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully within the configured timeout.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("shutting down",
		slog.Duration("timeout", app.Config.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(ctx, app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if app.shutdownTracing != nil {
		if err := app.shutdownTracing(shutdownCtx); err != nil {
			app.Logger.Warn("tracing shutdown failed", slog.String("error", err.Error()))
		}
	}
	infrastructure.CloseLogFile()

	app.Logger.Info("shutdown complete", slog.String("at", time.Now().Format(time.RFC3339)))
	return nil
}
