package task

import (
	"fmt"
	"time"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var planLock bool

var planCmd = &cobra.Command{
	Use:   "plan [task-id] [date]",
	Short: "Plan a task for a date",
	Long: `Plan a task for a date by hand. With --lock, auto-planning keeps the
date and still counts the task toward that day's load.

Examples:
  tired task plan 1f3a2b4c 2026-10-22
  tired task plan 1f3a2b4c 2026-10-22 --lock`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := cli.GetApp(ctx)
		if err != nil {
			return err
		}
		date, err := cli.ParseDate(args[1], app.Location())
		if err != nil {
			return err
		}
		return updateSchedule(cmd, app, args[0], commands.SchedulePlan, &date, planLock)
	},
}

var unplanCmd = &cobra.Command{
	Use:   "unplan [task-id]",
	Short: "Clear a task's planned date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.GetApp(cmd.Context())
		if err != nil {
			return err
		}
		return updateSchedule(cmd, app, args[0], commands.ScheduleUnplan, nil, false)
	},
}

var lockCmd = &cobra.Command{
	Use:   "lock [task-id]",
	Short: "Keep a task's planned date during auto-planning",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.GetApp(cmd.Context())
		if err != nil {
			return err
		}
		return updateSchedule(cmd, app, args[0], commands.ScheduleLock, nil, false)
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock [task-id]",
	Short: "Let auto-planning move a task again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.GetApp(cmd.Context())
		if err != nil {
			return err
		}
		return updateSchedule(cmd, app, args[0], commands.ScheduleUnlock, nil, false)
	},
}

func updateSchedule(cmd *cobra.Command, app *cli.App, ref string, action commands.ScheduleAction, date *time.Time, lock bool) error {
	ctx := cmd.Context()
	taskID, err := app.ResolveTaskID(ctx, ref)
	if err != nil {
		return err
	}

	err = app.UpdateTaskScheduleHandler.Handle(ctx, commands.UpdateTaskScheduleCommand{
		TaskID: taskID,
		UserID: app.CurrentUserID,
		Action: action,
		Date:   date,
		Lock:   lock,
	})
	if err != nil {
		return fmt.Errorf("failed to %s task: %w", action, err)
	}

	out := cmd.OutOrStdout()
	switch action {
	case commands.SchedulePlan:
		fmt.Fprintf(out, "Task %s planned for %s", cli.ShortID(taskID), date.Format(time.DateOnly))
		if lock {
			fmt.Fprint(out, " (locked)")
		}
		fmt.Fprintln(out)
	default:
		fmt.Fprintf(out, "Task %s: %s\n", cli.ShortID(taskID), action)
	}
	return nil
}

func init() {
	planCmd.Flags().BoolVar(&planLock, "lock", false, "lock the date")
}
