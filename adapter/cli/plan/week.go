package plan

import (
	"fmt"
	"strings"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/queries"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var weekOf string

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the load of each day of a week",
	Long: `Show planned minutes and busy time per day against the daily
capacity. Days over capacity are flagged.

Examples:
  tired plan week
  tired plan week --of 2026-10-26`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := cli.GetApp(ctx)
		if err != nil {
			return err
		}

		query := queries.GetWeekLoadQuery{UserID: app.CurrentUserID}
		if weekOf != "" {
			d, err := domain.ParseDay(weekOf)
			if err != nil {
				return fmt.Errorf("invalid --of date: %w", err)
			}
			query.WeekStart = d.WeekStart().Ptr()
		}

		week, err := app.GetWeekLoadHandler.Handle(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to load week: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Week of %s (capacity %d min/day)\n", week.WeekStart, week.Capacity)
		fmt.Fprintln(out, strings.Repeat("-", 40))
		printLoads(out, week.Days)
		if week.Overloaded {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Some days are overloaded. Try \"tired plan optimize\".")
		}
		return nil
	},
}

func init() {
	weekCmd.Flags().StringVar(&weekOf, "of", "", "any date in the week to show (YYYY-MM-DD, default this week)")
}
