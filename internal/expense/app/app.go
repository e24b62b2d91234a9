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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "github.com/aussiebroadwan/expenseflow/internal/expense/http"
	"github.com/aussiebroadwan/expenseflow/internal/expense/metrics"
	"github.com/aussiebroadwan/expenseflow/internal/expense/service"
	"github.com/aussiebroadwan/expenseflow/internal/expense/store"
	"github.com/aussiebroadwan/expenseflow/internal/expense/store/drivers/sqlite"
	"github.com/aussiebroadwan/expenseflow/internal/expense/views"
	"github.com/aussiebroadwan/expenseflow/pkg/jwtx"
	"github.com/aussiebroadwan/expenseflow/pkg/slogx"
)

const (
	// BuildVersion is reported by /livez and /readyz.
	BuildVersion = "v0.1.0"
)

// Application wires the expense service together and owns its lifecycle.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	keyManager *jwtx.KeyManager
	registry   *prometheus.Registry
	collector  *metrics.Collector
	views      *views.Router

	sessionService      *service.SessionService
	keyRotationService  *service.KeyRotationService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "expenseflow",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx := context.Background()

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	keyManager, err := InitSessionKeys(ctx, app.cfg, app.db, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}
	app.keyManager = keyManager

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("expenseflow starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down expenseflow...")

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

	app.logger.Info("expenseflow stopped")
	return nil
}

// initDatabase opens the database, applies migrations and seeds the
// identity store on first start.
func (app *Application) initDatabase(ctx context.Context) error {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database migrations applied successfully")

	users, err := service.SeedUsers()
	if err != nil {
		_ = db.Close()
		return err
	}
	n, err := (&service.SeedService{Store: db, Users: users}).Seed(ctx)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if n > 0 {
		app.logger.Info("seeded identity store", "users", n)
	}
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	vr, err := views.NewRouter()
	if err != nil {
		return fmt.Errorf("failed to load views: %w", err)
	}
	app.views = vr

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.collector = metrics.NewCollector(app.registry)

	app.sessionService = &service.SessionService{
		Store:  app.db,
		Keys:   app.keyManager,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.SessionTTL,
	}

	// Available in both modes; only persistent mode keeps rotated keys
	// across restarts.
	app.keyRotationService = &service.KeyRotationService{KeyManager: app.keyManager}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.SessionTTL,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager,
		BuildVersion,
		app.db,
		app.collector,
		app.logger,
	)

	router.SessionService = app.sessionService
	router.KeyRotationService = app.keyRotationService
	router.Views = app.views
	router.Gatherer = app.registry
	router.CookieSecure = app.cfg.CookieSecure
	router.RateLimits = app.cfg.RateLimits()
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
