package task

import (
	"fmt"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Mark a task as in progress",
	Long: `Mark a task as in progress. A task cannot start before the tasks it
depends on are done.`,
	Args: cobra.ExactArgs(1),
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

		err = app.StartTaskHandler.Handle(ctx, commands.StartTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to start task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task started: %s\n", cli.ShortID(taskID))
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:     "done [task-id]",
	Short:   "Mark a task as completed",
	Aliases: []string{"complete"},
	Args:    cobra.ExactArgs(1),
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

		result, err := app.CompleteTaskHandler.Handle(ctx, commands.CompleteTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task completed: %s\n", cli.ShortID(taskID))
		for _, u := range result.Unlocked {
			fmt.Fprintf(out, "  unlocked: %s %s\n", cli.ShortID(u.ID), u.Title)
		}
		return nil
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive [task-id]",
	Short: "Archive a task",
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

		result, err := app.ArchiveTaskHandler.Handle(ctx, commands.ArchiveTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to archive task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task archived: %s\n", cli.ShortID(taskID))
		if result.FreedDate != nil {
			fmt.Fprintf(out, "  freed: %s\n", result.FreedDate.Format("2006-01-02"))
		}
		for _, d := range result.Dependents {
			fmt.Fprintf(out, "  was needed by: %s %s\n", cli.ShortID(d.ID), d.Title)
		}
		for _, u := range result.Unlocked {
			fmt.Fprintf(out, "  unlocked: %s %s\n", cli.ShortID(u.ID), u.Title)
		}
		return nil
	},
}
