package task

import (
	"fmt"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/productivity/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	priority    string
	estimate    int
	description string
	deadline    string
	plannedOn   string
	lockDate    bool
	dependsOn   []string
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task with a title and optional properties.

Examples:
  tired task add "Write lab report"
  tired task add "Study for midterm" -p high -e 120 --deadline 2026-10-28
  tired task add "Submit report" --after 1f3a2b4c --on 2026-10-22 --lock`,
	Aliases: []string{"create"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := cli.GetApp(ctx)
		if err != nil {
			return err
		}
		loc := app.Location()

		createCmd := commands.CreateTaskCommand{
			UserID:          app.CurrentUserID,
			Title:           args[0],
			Description:     description,
			Priority:        priority,
			EstimateMinutes: estimate,
			LockDate:        lockDate,
		}

		if deadline != "" {
			d, err := cli.ParseDeadline(deadline, loc)
			if err != nil {
				return err
			}
			createCmd.DeadlineAt = &d
		}
		if plannedOn != "" {
			d, err := cli.ParseDate(plannedOn, loc)
			if err != nil {
				return err
			}
			createCmd.PlannedDate = &d
		}
		for _, ref := range dependsOn {
			id, err := app.ResolveTaskID(ctx, ref)
			if err != nil {
				return err
			}
			createCmd.DependsOn = append(createCmd.DependsOn, id)
		}

		result, err := app.CreateTaskHandler.Handle(ctx, createCmd)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task created: %s\n", cli.ShortID(result.TaskID))
		fmt.Fprintf(out, "  title: %s\n", args[0])
		if priority != "" {
			fmt.Fprintf(out, "  priority: %s\n", priority)
		}
		if estimate > 0 {
			fmt.Fprintf(out, "  estimate: %d minutes\n", estimate)
		}
		if createCmd.DeadlineAt != nil {
			fmt.Fprintf(out, "  deadline: %s\n", createCmd.DeadlineAt.Format("2006-01-02 15:04"))
		}
		if len(createCmd.DependsOn) > 0 {
			fmt.Fprintf(out, "  after: %s\n", shortIDs(createCmd.DependsOn))
		}
		return nil
	},
}

func shortIDs(ids []uuid.UUID) string {
	s := ""
	for i, id := range ids {
		if i > 0 {
			s += ", "
		}
		s += cli.ShortID(id)
	}
	return s
}

func init() {
	addCmd.Flags().StringVarP(&priority, "priority", "p", "", "task priority (low, medium, high)")
	addCmd.Flags().IntVarP(&estimate, "estimate", "e", 0, "estimated effort in minutes")
	addCmd.Flags().StringVar(&description, "description", "", "task description")
	addCmd.Flags().StringVarP(&deadline, "deadline", "d", "", "deadline (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")")
	addCmd.Flags().StringVar(&plannedOn, "on", "", "plan the task for a date (YYYY-MM-DD)")
	addCmd.Flags().BoolVar(&lockDate, "lock", false, "keep the planned date fixed during auto-planning")
	addCmd.Flags().StringSliceVar(&dependsOn, "after", nil, "ids of tasks that must be done first")
}
