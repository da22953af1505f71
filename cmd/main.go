package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fmt"

	"rallygoods/internal/adapter/authoring"
	httpadapter "rallygoods/internal/adapter/http"
	"rallygoods/internal/adapter/postgres"
	"rallygoods/internal/adapter/static"
	"rallygoods/internal/adapter/usecase"
	"rallygoods/internal/config"
	"rallygoods/internal/db"
)

// main is the entry point of the rallygoods catalog service. It loads
// configuration, optionally runs database migrations, initializes the
// database pool, repositories and usecases, then starts the HTTP server and
// the sync scheduler. On receiving a termination signal it gracefully shuts
// down the server.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logger *slog.Logger
	{
		// Initialise structured logger based on configuration.
		var handler slog.Handler
		level := cfg.Log.SlogLevel()
		switch cfg.Log.SlogFormat() {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		default:
			handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		}
		logger = slog.New(handler)
	}

	// Optionally run migrations if configured. We use the Psql sub‑config.
	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
		} else {
			logger.Info("migrations applied successfully")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		logger.Error("database connection error", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	bundleRepo := postgres.NewBundleRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	syncRunRepo := postgres.NewSyncRunRepository(pool)
	authoringClient := authoring.NewClient(cfg.Authoring.BaseURL, cfg.Authoring.Timeout)
	staticCatalog := static.NewCatalog()

	// Read tiers in strict fallback order; the static tier goes last
	// because it cannot fail.
	resolver := usecase.NewResolver(logger, cfg.Resolver.TierTimeout,
		bundleRepo, authoringClient, staticCatalog)
	validator := usecase.NewValidator(bundleRepo, productRepo)
	recalc := usecase.NewRecalculator(bundleRepo, logger)
	cleanup := usecase.NewCleanup(bundleRepo, validator, recalc, logger)
	admin := usecase.NewAdmin(bundleRepo, validator, recalc)
	syncRunner := usecase.NewSyncRunner(authoringClient, bundleRepo, productRepo, syncRunRepo,
		logger, cfg.Sync.NotableChangeThreshold)

	if cfg.Sync.Enabled {
		syncRunner.Schedule(ctx, cfg.Sync.Interval, cfg.Sync.RunOnStartup)
		logger.Info("sync scheduler started", slog.Duration("interval", cfg.Sync.Interval))
	}

	handler := httpadapter.NewHandler(resolver, admin, validator, cleanup, recalc, syncRunner,
		bundleRepo, authoringClient, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	value := <-quit
	exitCode = 128 + int(value.(syscall.Signal))

	ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}
