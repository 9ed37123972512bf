package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

var (
	status      string
	plannedDay  string
	unscheduled bool
	limit       int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks, planned ones first by date.

Examples:
  tired task list                      # Open tasks
  tired task list --status all         # Everything, archived included
  tired task list --on 2026-10-22      # Tasks planned for a day
  tired task list --unscheduled        # Open tasks without a date`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := cli.GetApp(ctx)
		if err != nil {
			return err
		}

		query := queries.ListTasksQuery{
			UserID:      app.CurrentUserID,
			Status:      status,
			Unscheduled: unscheduled,
			Limit:       limit,
		}
		if plannedDay != "" {
			d, err := cli.ParseDate(plannedDay, app.Location())
			if err != nil {
				return err
			}
			query.PlannedOn = &d
		}

		tasks, err := app.ListTasksHandler.Handle(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		fmt.Fprintf(out, "Tasks (%d):\n", len(tasks))
		fmt.Fprintln(out, strings.Repeat("-", 60))

		now := time.Now()
		for _, t := range tasks {
			marker := ""
			switch {
			case t.Blocked:
				marker = " [BLOCKED]"
			case t.DeadlineAt != nil && t.CompletedAt == nil && t.DeadlineAt.Before(now):
				marker = " [OVERDUE]"
			}

			fmt.Fprintf(out, "%s %s %s%s\n", getStatusIcon(t.Status), t.Title, getPriorityBadge(t.Priority), marker)
			fmt.Fprintf(out, "   ID: %s\n", cli.ShortID(t.ID))
			if t.EstimateMinutes > 0 {
				fmt.Fprintf(out, "   Estimate: %d min\n", t.EstimateMinutes)
			}
			if t.DeadlineAt != nil {
				fmt.Fprintf(out, "   Deadline: %s\n", t.DeadlineAt.In(app.Location()).Format("2006-01-02 15:04"))
			}
			if t.PlannedDate != "" {
				lock := ""
				if t.IsDateLocked {
					lock = " (locked)"
				}
				fmt.Fprintf(out, "   Planned: %s%s\n", t.PlannedDate, lock)
			}
			if len(t.DependsOn) > 0 {
				fmt.Fprintf(out, "   After: %s\n", shortIDs(t.DependsOn))
			}
			fmt.Fprintln(out)
		}

		return nil
	},
}

func getStatusIcon(status string) string {
	switch status {
	case "completed":
		return "[x]"
	case "in_progress":
		return "[>]"
	case "archived":
		return "[-]"
	default:
		return "[ ]"
	}
}

func getPriorityBadge(priority string) string {
	switch priority {
	case "high":
		return "(!)"
	case "medium":
		return "(~)"
	case "low":
		return "(.)"
	default:
		return ""
	}
}

func init() {
	listCmd.Flags().StringVarP(&status, "status", "s", "", "filter by status (open, pending, in_progress, completed, archived, all)")
	listCmd.Flags().StringVar(&plannedDay, "on", "", "show tasks planned on a date (YYYY-MM-DD)")
	listCmd.Flags().BoolVar(&unscheduled, "unscheduled", false, "show only tasks without a planned date")
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "max number of tasks to show (0 = no limit)")
}
