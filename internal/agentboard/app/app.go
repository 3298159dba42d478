package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/agentboard/internal/agentboard/http"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/metrics"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/service"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/store"
	"github.com/aussiebroadwan/agentboard/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// BuildVersion is overridden at build time via -ldflags "-X ...app.BuildVersion=...".
var BuildVersion = "v0.1.0"

// Application encapsulates the agentboard service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	keys     *OperatorKeys
	pepper   []byte
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// Services
	agentService        *service.AgentService
	keyRotationService  *service.KeyRotationService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "agentboard",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates a new Application instance with all dependencies initialized
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg),
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	keys, err := InitOperatorKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.keys = keys

	if app.pepper, err = LoadPepper(cfg); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initMetrics()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the router, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("agentboard starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down agentboard...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("agentboard stopped")
	return nil
}

func (app *Application) initDatabase(ctx context.Context) error {
	db, err := OpenStore(ctx, app.cfg)
	if err != nil {
		return err
	}
	app.db = db

	driver := "sqlite"
	if app.cfg.IsPostgres() {
		driver = "postgres"
	}
	app.logger.Info("database migrations applied successfully", "driver", driver)
	return nil
}

func (app *Application) initMetrics() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.New(app.registry)
}

func (app *Application) initServices() {
	app.agentService = &service.AgentService{
		Store:     app.db,
		Pepper:    app.pepper,
		Paginator: app.cfg.Paginator(),
	}

	app.keyRotationService = &service.KeyRotationService{
		Store: app.db,
		Limiter: service.RotationLimiter{
			Limit:  app.cfg.RotationLimit,
			Window: app.cfg.RotationWindow,
		},
		Pepper:  app.pepper,
		Metrics: app.metrics,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	app.housekeepingService.Metrics = app.metrics
	app.housekeepingService.Retention = app.cfg.RotationRetention
	app.housekeepingService.Window = app.cfg.RotationWindow
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys.KeySet,
		app.keys.Verifier,
		BuildVersion,
		app.db,
		app.logger,
		app.metrics,
		app.registry,
	)

	router.AgentService = app.agentService
	router.KeyRotationService = app.keyRotationService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
