// Package main is the entry point for the dispatchboard controller.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dispatchboard/internal/config"
	"dispatchboard/internal/controller"
	"dispatchboard/internal/controller/handlers"
	"dispatchboard/internal/logger"
	"dispatchboard/internal/observability"
	"dispatchboard/internal/store/postgres"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Parse flags
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	configPath := flag.String("config", "", "Path to config file (default: dispatchboard.yaml in current directory)")
	flag.Parse()

	log := logger.New()

	fatal := func(msg string, err error) {
		log.Error(msg, "error", err)
		os.Exit(1)
	}

	// Load Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("failed to load config", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to Postgres
	store, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer store.Close()

	// Run migrations if requested
	if *migrateFlag {
		log.Info("running database migrations")
		if err := postgres.Migrate(store.DB()); err != nil {
			fatal("migration failed", err)
		}
		log.Info("migrations completed")
	}

	// Tracing
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName:    "dispatchboard-controller",
		ServiceVersion: version,
		Endpoint:       cfg.OTELEndpoint,
		SampleRatio:    cfg.TraceSampleRatio,
	})
	if err != nil {
		fatal("failed to init tracing", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Warn("failed to shutdown tracer", "error", err)
		}
	}()

	// Metrics
	metricsHandler, shutdownMetrics, err := observability.InitMetrics()
	if err != nil {
		fatal("failed to init metrics", err)
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			log.Warn("failed to shutdown metrics", "error", err)
		}
	}()

	dispatchMetrics, err := observability.NewDispatchMetrics()
	if err != nil {
		fatal("failed to register dispatch metrics", err)
	}

	// Start Server
	srv := controller.New(store, controller.Options{
		Addr:           fmt.Sprintf(":%d", cfg.HTTPPort),
		SystemSecret:   cfg.SystemSecret,
		RequestTimeout: cfg.RequestTimeout,
		Metrics:        metricsHandler,
		Logger:         log,
		Handlers: []handlers.Option{
			handlers.WithMetrics(dispatchMetrics),
			handlers.WithTenantDefaults(cfg.DefaultRateLimit, cfg.DefaultRateLimitBurst),
		},
	})

	log.Info("dispatchboard controller starting", "port", cfg.HTTPPort, "version", version)

	// Run blocks until SIGINT/SIGTERM cancels ctx, then shuts down gracefully.
	if err := srv.Run(ctx); err != nil {
		log.Error("server stopped", "error", err)
		return
	}
	log.Info("server exited properly")
}
