// Package clitest builds a CLI application on an in-memory SQLite database
// for command tests.
package clitest

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/app"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database/sqlite"
	"github.com/Miiduoa/tired-sub002/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// Config is a development configuration planning in UTC with weekends on.
func Config() *config.Config {
	return &config.Config{
		AppEnv:             "development",
		LogLevel:           "error",
		UserID:             config.DefaultUserID,
		DatabaseDriver:     "sqlite",
		SQLitePath:         sqlite.MemoryPath,
		PlanWeeklyCapacity: 600,
		PlanWorkdays:       "mon,tue,wed,thu,fri",
		PlanAllowWeekends:  true,
		PlanHorizonDays:    14,
		PlanTimezone:       "UTC",
	}
}

// Setup builds the application, installs it as the CLI app and removes it
// when the test ends.
func Setup(t *testing.T) *cli.App {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	container, err := app.NewContainer(context.Background(), Config(), logger)
	require.NoError(t, err)

	a, err := cli.NewApp(container)
	require.NoError(t, err)

	cli.SetApp(a)
	t.Cleanup(cli.CloseApp)
	return a
}

// Run executes cmd's RunE with args and returns what it printed.
func Run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	defer cmd.SetOut(nil)

	err := cmd.RunE(cmd, args)
	return out.String(), err
}
