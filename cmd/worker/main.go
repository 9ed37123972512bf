package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/app"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/nightly"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/eventbus"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/outbox"
	"github.com/Miiduoa/tired-sub002/pkg/config"
	"github.com/Miiduoa/tired-sub002/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sourcegraph/conc"
)

const serviceName = "tired-worker"

func main() {
	// Setup logger
	logger := observability.NewLogger(observability.ProductionLogConfig(serviceName))

	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logCfg := observability.ProductionLogConfig(serviceName)
	logCfg.Level = cfg.LogLevel
	if cfg.IsDevelopment() {
		logCfg.Format = observability.LogFormatText
		logCfg.Level = "debug"
	}
	logger = observability.NewLogger(logCfg)
	logger.Info("starting tired worker")

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Create event publisher
	publisher, err := container.NewPublisher()
	if err != nil {
		logger.Error("failed to create publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	// Create outbox processor
	processorConfig := outbox.DefaultProcessorConfig()
	processorConfig.PollInterval = cfg.OutboxPollInterval
	processorConfig.BatchSize = cfg.OutboxBatchSize
	processorConfig.MaxRetries = cfg.OutboxMaxRetries
	processorConfig.Retention = time.Duration(cfg.OutboxRetentionDays) * 24 * time.Hour
	processor := outbox.NewProcessor(container.OutboxRepo, publisher, container.UnitOfWork, processorConfig, logger)

	if cfg.OutboxProcessorEnabled {
		processor.Start(ctx)
	} else {
		logger.Info("outbox processor disabled")
	}

	// Nightly auto-plan
	loc, err := cfg.Location()
	if err != nil {
		logger.Error("invalid timezone", "error", err)
		os.Exit(1)
	}
	job := nightly.NewJob(container.TaskRepo, container.AutoPlanHandler, cfg.PlanNightlyHour, loc, logger)
	var jobs conc.WaitGroup
	jobs.Go(func() { job.Start(ctx) })

	// Health and metrics
	health := observability.NewHealthRegistry()
	health.Register("database", observability.DatabaseHealthChecker(container.DB.Ping))
	if container.RedisClient != nil {
		health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
			return container.RedisClient.Ping(ctx).Err()
		}))
	}
	if rabbit, ok := publisher.(*eventbus.RabbitMQPublisher); ok {
		health.Register("rabbitmq", observability.RabbitMQHealthChecker(rabbit.Ping))
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", observability.LivenessHandler())
	mux.Handle("/readyz", health.ReadinessHandler())
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		stats := processor.Stats()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"running":           stats.Running,
			"published":         stats.Published,
			"failed":            stats.Failed,
			"dead":              stats.Dead,
			"lag_seconds":       stats.Lag.Seconds(),
			"last_error":        stats.LastError,
			"last_processed_at": stats.LastProcessedAt,
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down worker")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown error", "error", err)
	}

	// Let a nightly pass in progress commit before the processor stops.
	jobs.Wait()
	processor.Stop()
	logger.Info("worker stopped")
}
