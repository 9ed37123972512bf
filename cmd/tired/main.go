package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/adapter/cli/busy"
	"github.com/Miiduoa/tired-sub002/adapter/cli/plan"
	"github.com/Miiduoa/tired-sub002/adapter/cli/task"
	"github.com/Miiduoa/tired-sub002/internal/app"
	"github.com/Miiduoa/tired-sub002/pkg/config"
	"github.com/Miiduoa/tired-sub002/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := observability.NewLogger(observability.LogConfig{
		Leveler: level,
		Format:  observability.LogFormatText,
		Output:  os.Stderr,
	})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.LogLevel != "" && cfg.LogLevel != "info" {
		level.Set(observability.ParseLevel(cfg.LogLevel))
	}
	cli.SetLogger(logger, level)

	// The container is built on first use so offline commands need no database.
	cli.SetFactory(func(ctx context.Context) (*cli.App, error) {
		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		a, err := cli.NewApp(container)
		if err != nil {
			container.Close()
			return nil, err
		}
		return a, nil
	})

	// Register commands
	cli.AddCommand(task.Cmd)
	cli.AddCommand(busy.Cmd)
	cli.AddCommand(plan.Cmd)

	// Execute CLI
	cli.Execute(ctx)
}
