package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/idempotency-gateway/internal/adapters/claimstore"
	"github.com/DanielPopoola/idempotency-gateway/internal/adapters/upstream"
	"github.com/DanielPopoola/idempotency-gateway/internal/config"
	"github.com/DanielPopoola/idempotency-gateway/internal/core/service"
	"github.com/DanielPopoola/idempotency-gateway/internal/metrics"
	"github.com/DanielPopoola/idempotency-gateway/internal/telemetry"
	"github.com/DanielPopoola/idempotency-gateway/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting idempotency gateway",
		"port", cfg.Server.Port,
		"store", cfg.Store.Driver,
		"upstream", cfg.Upstream.BaseURL,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()

	tel, err := telemetry.Initialize(ctx, cfg.Telemetry, cfg.Primary.Env)
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}

	recorder, err := metrics.NewMetrics(tel.Meter(metrics.MeterName))
	if err != nil {
		logger.Error("failed to create metrics", "error", err)
		os.Exit(1)
	}

	backend, err := claimstore.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open claim store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	proxy, err := upstream.NewProxy(cfg.Upstream, logger)
	if err != nil {
		logger.Error("failed to configure upstream", "error", err)
		os.Exit(1)
	}

	guard := service.NewGuard(backend.Store, recorder, logger)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      newRouter(guard, backend.Health, proxy, cfg.Server.WriteTimeout, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	if backend.Expirer != nil {
		sweeper := worker.NewClaimSweeper(backend.Expirer, cfg.Worker.Interval, cfg.Worker.BatchSize, logger)
		go sweeper.Start(workerCtx)
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown failed", "error", err)
	}

	logger.Info("server exited")
}
