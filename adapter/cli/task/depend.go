package task

import (
	"fmt"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var removeDependency bool

var dependCmd = &cobra.Command{
	Use:   "depend [task-id] [depends-on-id]",
	Short: "Make a task wait for another",
	Long: `Make a task wait for another one. Self dependencies and cycles are
rejected, and auto-planning considers the prerequisite first.

Examples:
  tired task depend 9c1d0e2f 1f3a2b4c
  tired task depend 9c1d0e2f 1f3a2b4c --remove`,
	Args: cobra.ExactArgs(2),
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
		dependsOnID, err := app.ResolveTaskID(ctx, args[1])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if removeDependency {
			err = app.DependencyHandler.Remove(ctx, commands.RemoveDependencyCommand{
				UserID:      app.CurrentUserID,
				TaskID:      taskID,
				DependsOnID: dependsOnID,
			})
			if err != nil {
				return fmt.Errorf("failed to remove dependency: %w", err)
			}
			fmt.Fprintf(out, "Task %s no longer waits for %s\n", cli.ShortID(taskID), cli.ShortID(dependsOnID))
			return nil
		}

		err = app.DependencyHandler.Add(ctx, commands.AddDependencyCommand{
			UserID:      app.CurrentUserID,
			TaskID:      taskID,
			DependsOnID: dependsOnID,
		})
		if err != nil {
			return fmt.Errorf("failed to add dependency: %w", err)
		}
		fmt.Fprintf(out, "Task %s now waits for %s\n", cli.ShortID(taskID), cli.ShortID(dependsOnID))
		return nil
	},
}

func init() {
	dependCmd.Flags().BoolVar(&removeDependency, "remove", false, "remove the dependency instead")
}
