package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/app"
	mcpinternal "github.com/Miiduoa/tired-sub002/internal/mcp"
	"github.com/Miiduoa/tired-sub002/pkg/config"
	"github.com/Miiduoa/tired-sub002/pkg/observability"
)

func main() {
	logger := observability.NewLogger(observability.ProductionLogConfig(mcpinternal.ServerName))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.IsDevelopment() {
		logger = observability.NewLogger(observability.LogConfig{
			Level:   "debug",
			Format:  observability.LogFormatText,
			Output:  os.Stderr,
			Service: mcpinternal.ServerName,
		})
	} else {
		logger = observability.NewLogger(observability.LogConfig{
			Level:   cfg.LogLevel,
			Format:  observability.LogFormatJSON,
			Output:  os.Stdout,
			Service: mcpinternal.ServerName,
		})
	}
	slog.SetDefault(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cliApp, err := cli.NewApp(container)
	if err != nil {
		logger.Error("invalid LOCAL_USER_ID", "error", err)
		os.Exit(1)
	}

	if err := mcpinternal.Serve(ctx, cfg, cliApp, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
