package plan

import (
	"github.com/spf13/cobra"
)

// Cmd is the plan command group
var Cmd = &cobra.Command{
	Use:   "plan",
	Short: "Auto-plan and rebalance tasks",
	Long: `Spread open tasks over the coming days, rebalance the current week
and inspect each day's load.`,
}

func init() {
	Cmd.AddCommand(autoCmd)
	Cmd.AddCommand(optimizeCmd)
	Cmd.AddCommand(weekCmd)
	Cmd.AddCommand(historyCmd)
	Cmd.AddCommand(previewCmd)
}
