package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"growthboard/internal/config"
	apierrors "growthboard/internal/errors"
	"growthboard/internal/infrastructure"
	"growthboard/internal/middleware"
	"growthboard/internal/services"
	transporthttp "growthboard/internal/transport/http"
	"growthboard/internal/websocket"
)

// Version is stamped at build time.
var Version = "dev"

// Application wires configuration, services, transport and observability.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Router *chi.Mux

	server    *http.Server
	otel      *infrastructure.OTelProviders
	hub       *websocket.Hub
	datasets  *services.DatasetService
	seriesSvc *services.SeriesService
}

// NewApplication builds a fully wired application from configuration.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	a := &Application{Config: cfg, Logger: logger}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("initialize observability: %w", err)
	}
	a.otel = otelProviders

	a.hub = websocket.NewHub(logger, cfg.Security.AllowedOrigins)
	a.datasets = services.NewDatasetService(logger, a.hub)
	a.seriesSvc = services.NewSeriesService(a.datasets, cfg.Dataset.VariableOrder, logger)

	if cfg.Dataset.Path != "" {
		if _, err := a.datasets.LoadFromFile(context.Background(), cfg.Dataset.Path); err != nil {
			// A bad startup dataset leaves the session empty; uploads can
			// still supply a valid one.
			logger.Warn("startup dataset load failed, waiting for upload",
				slog.String("path", cfg.Dataset.Path),
				slog.String("error", err.Error()))
		}
	}

	if err := a.setupRouter(); err != nil {
		return nil, fmt.Errorf("setup router: %w", err)
	}

	a.server = &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      a.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return a, nil
}

// setupRouter configures the HTTP router with middleware and all routes.
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	otelMW, err := middleware.NewOTelMiddleware(a.otel)
	if err != nil {
		return err
	}

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(otelMW.Handler)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(middleware.Recoverer(a.Logger))
	r.Use(middleware.CORS(a.Config.Security.AllowedOrigins))
	if a.Config.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger)

	datasetHandler := transporthttp.NewDatasetHandler(a.datasets, a.seriesSvc, a.Logger, errorHandler, a.Config.Dataset.MaxUploadBytes)
	seriesHandler := transporthttp.NewSeriesHandler(a.seriesSvc, a.Logger, errorHandler)
	exportHandler := transporthttp.NewExportHandler(a.seriesSvc, a.Logger, errorHandler)
	healthHandler := transporthttp.NewHealthHandler(a.datasets, Version)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/healthz", healthHandler.Routes())
		r.Mount("/dataset", datasetHandler.Routes())
		r.Mount("/series", seriesHandler.Routes())
		r.Mount("/export", exportHandler.Routes())
	})

	if a.otel.PrometheusHTTP != nil {
		r.Handle("/metrics", a.otel.PrometheusHTTP)
	}
	r.Get("/ws", a.hub.ServeHTTP)

	a.Router = r
	return nil
}

// Run starts the server and the websocket hub, then blocks until SIGINT or
// SIGTERM triggers a graceful shutdown.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		a.Logger.Info("server listening",
			slog.String("addr", a.server.Addr),
			slog.String("version", Version))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return a.shutdown()
	})

	return g.Wait()
}

// shutdown drains in-flight requests and flushes telemetry.
func (a *Application) shutdown() error {
	a.Logger.Info("shutting down",
		slog.Duration("timeout", a.Config.Server.ShutdownTimeout))

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.Logger.Error("server shutdown failed", slog.String("error", err.Error()))
	}
	if err := a.otel.Shutdown(ctx); err != nil {
		a.Logger.Error("telemetry shutdown failed", slog.String("error", err.Error()))
	}

	// Give the log file a moment to flush before the process exits.
	time.Sleep(100 * time.Millisecond)
	return infrastructure.CloseLogger()
}
