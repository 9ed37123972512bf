package task

import (
	"fmt"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show one task in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := cli.GetApp(ctx)
		if err != nil {
			return err
		}
		taskID, err := app.ResolveTaskID(ctx, args[0])
		if err != nil {
			return err
		}

		t, err := app.GetTaskHandler.Handle(ctx, queries.GetTaskQuery{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to load task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %s\n", cli.ShortID(t.ID), t.Title)
		if t.Description != "" {
			fmt.Fprintf(out, "  %s\n", t.Description)
		}
		fmt.Fprintf(out, "  status:   %s\n", t.Status)
		fmt.Fprintf(out, "  priority: %s\n", t.Priority)
		if t.EstimateMinutes > 0 {
			fmt.Fprintf(out, "  estimate: %d minutes\n", t.EstimateMinutes)
		}
		if t.DeadlineAt != nil {
			fmt.Fprintf(out, "  deadline: %s\n", t.DeadlineAt.In(app.Location()).Format("2006-01-02 15:04"))
		}
		switch {
		case t.PlannedDate != "" && t.IsDateLocked:
			fmt.Fprintf(out, "  planned:  %s (locked)\n", t.PlannedDate)
		case t.PlannedDate != "":
			fmt.Fprintf(out, "  planned:  %s\n", t.PlannedDate)
		default:
			fmt.Fprintln(out, "  planned:  not scheduled")
		}
		for _, b := range t.Blockers {
			fmt.Fprintf(out, "  waits for %s %s (%s)\n", cli.ShortID(b.ID), b.Title, b.Status)
		}
		if t.Blocked {
			fmt.Fprintln(out, "  blocked until its dependencies are done")
		}
		for _, d := range t.Dependents {
			fmt.Fprintf(out, "  needed by %s %s\n", cli.ShortID(d.ID), d.Title)
		}
		return nil
	},
}
