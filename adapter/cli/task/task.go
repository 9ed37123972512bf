package task

import (
	"github.com/spf13/cobra"
)

// Cmd is the task command group
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long:  `Create, list, complete, plan and link your tasks.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(startCmd)
	Cmd.AddCommand(doneCmd)
	Cmd.AddCommand(archiveCmd)
	Cmd.AddCommand(planCmd)
	Cmd.AddCommand(unplanCmd)
	Cmd.AddCommand(lockCmd)
	Cmd.AddCommand(unlockCmd)
	Cmd.AddCommand(dependCmd)
}
