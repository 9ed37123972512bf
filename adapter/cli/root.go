package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	sharedApplication "github.com/Miiduoa/tired-sub002/internal/shared/application"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	verbose  bool
	logger   *slog.Logger
	logLevel *slog.LevelVar
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tired",
	Short: "Tired - deadline-aware task auto-scheduling",
	Long: `Tired keeps a task list and spreads open tasks over the coming
days, respecting deadlines, dependencies, busy time and a daily capacity.

	Run "tired plan auto" to schedule, "tired plan week" to see the load.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		if verbose && logLevel != nil {
			logLevel.Set(slog.LevelDebug)
		}
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		ctx := sharedApplication.WithCorrelationID(cmd.Context(), info.correlationID)
		cmd.SetContext(context.WithValue(ctx, commandContextKey{}, info))
		logger.DebugContext(cmd.Context(), "command start", "command", cmd.CommandPath())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.DebugContext(cmd.Context(), "command end",
			"command", cmd.CommandPath(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command and closes the application afterwards.
func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	CloseApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger. level, when not nil, is raised to debug by
// --verbose.
func SetLogger(l *slog.Logger, level *slog.LevelVar) {
	logger = l
	logLevel = level
}

// Logger returns the CLI logger.
func Logger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
