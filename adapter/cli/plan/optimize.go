package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/productivity/application/queries"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/commands"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/services"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Rebalance this week's overloaded days",
	Long: `Move unlocked tasks off days that exceed the soft limit onto lighter
days of the current week, never past a deadline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := cli.GetApp(ctx)
		if err != nil {
			return err
		}

		result, err := app.OptimizeWeekHandler.Handle(ctx, commands.OptimizeWeekCommand{
			UserID: app.CurrentUserID,
		})
		if errors.Is(err, commands.ErrPlanInProgress) {
			return fmt.Errorf("another planning run is in progress, try again shortly")
		}
		if err != nil {
			return fmt.Errorf("optimize failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(result.Moves) == 0 {
			fmt.Fprintln(out, "The week is balanced, nothing moved.")
			return nil
		}

		titles := make(map[uuid.UUID]string)
		tasks, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{
			UserID: app.CurrentUserID,
			Status: "all",
		})
		if err != nil {
			return err
		}
		for _, t := range tasks {
			titles[t.ID] = t.Title
		}

		fmt.Fprintf(out, "Moved %d task(s):\n", len(result.Moves))
		fmt.Fprintln(out, strings.Repeat("-", 40))
		for _, m := range result.Moves {
			fmt.Fprintf(out, "  %s -> %s  %-6s %s\n", m.From, m.To, services.FormatMinutes(m.Minutes), titles[m.TaskID])
		}
		return nil
	},
}
