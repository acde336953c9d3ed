package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"aiso/tripdesk/internal/api"
	"aiso/tripdesk/internal/config"
	"aiso/tripdesk/internal/logging"
	"aiso/tripdesk/internal/metrics"
	"aiso/tripdesk/internal/routes"
)

const shutdownTimeout = 10 * time.Second

// @title Tripdesk API
// @version 1.0
// @description Trip preference reconciliation and booking backend for the meeting travel assistant.
// @host localhost:8080
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Tripdesk starting up",
		"environment", cfg.AppEnv,
		"store_backend", cfg.StoreBackend,
		"candidate_cache", cfg.CandidateCacheBackend,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(ctx, cfg, m)
	if err != nil {
		logging.Error("Failed to initialize dependencies", "error", err.Error())
		log.Fatalf("❌ Failed to initialize dependencies: %v", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logging.Warn("Error closing dependencies", "error", err)
		}
	}()
	logging.Info("Store connected", "backend", deps.Store.Backend())

	if cfg.SeedDemoData {
		if err := deps.Services.Seed.SeedDemo(ctx, time.Now()); err != nil {
			logging.Warn("Demo data seeding failed", "error", err)
		} else {
			logging.Info("Demo data seeded")
		}
	}

	workersCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	bg := deps.StartWorkers(workersCtx)

	upSince := time.Now()
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      routes.RegisterRoutes(deps, upSince, prometheus.DefaultGatherer),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logging.Error("Server failed", "error", err)
		}
	case <-ctx.Done():
		logging.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err)
	}

	stopWorkers()
	if bg != nil {
		bg.Wait()
	}
	logging.Info("Server stopped", "uptime", time.Since(upSince).Round(time.Second).String())
}
