package plan

import (
	"fmt"
	"strings"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/queries"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent planning runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := cli.GetApp(ctx)
		if err != nil {
			return err
		}

		runs, err := app.ListPlanRunsHandler.Handle(ctx, queries.ListPlanRunsQuery{
			UserID: app.CurrentUserID,
			Limit:  historyLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No planning runs yet.")
			return nil
		}

		fmt.Fprintf(out, "Planning runs (%d):\n", len(runs))
		fmt.Fprintln(out, strings.Repeat("-", 40))
		for _, r := range runs {
			fmt.Fprintf(out, "%s  %-9s week %s", r.RanAt.In(app.Location()).Format("2006-01-02 15:04"), r.Kind, r.WeekStart)
			switch r.Kind {
			case string(domain.PlanRunOptimize):
				fmt.Fprintf(out, "  moved %d\n", r.MovedCount)
			default:
				fmt.Fprintf(out, "  scheduled %d, skipped %d\n", r.ScheduledCount, r.SkippedCount)
			}
			if len(r.OverloadedDays) > 0 {
				days := make([]string, len(r.OverloadedDays))
				for i, d := range r.OverloadedDays {
					days[i] = d.String()
				}
				fmt.Fprintf(out, "   overloaded: %s\n", strings.Join(days, ", "))
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
}
