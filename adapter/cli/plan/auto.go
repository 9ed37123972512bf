package plan

import (
	"errors"
	"fmt"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var dryRun bool

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Plan open tasks onto days",
	Long: `Place every open, unlocked task on a day before its deadline,
respecting dependencies, busy time and the daily capacity.

Examples:
  tired plan auto
  tired plan auto --dry-run    # Show the plan without saving it`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := cli.GetApp(ctx)
		if err != nil {
			return err
		}

		result, err := app.AutoPlanHandler.Handle(ctx, commands.AutoPlanCommand{
			UserID: app.CurrentUserID,
			DryRun: dryRun,
		})
		if errors.Is(err, commands.ErrPlanInProgress) {
			return fmt.Errorf("another planning run is in progress, try again shortly")
		}
		if err != nil {
			return fmt.Errorf("auto-plan failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if result.DryRun {
			fmt.Fprintln(out, "Dry run, nothing saved.")
		}
		printReport(out, result.Report, titleLabel)
		if !result.DryRun {
			fmt.Fprintf(out, "\n%d task(s) updated, run %s\n", result.ChangedTasks, cli.ShortID(result.RunID))
		}
		return nil
	},
}

func init() {
	autoCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the plan without saving it")
}
