package busy

import (
	"fmt"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove [block-id]",
	Short:   "Remove busy time",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := cli.GetApp(ctx)
		if err != nil {
			return err
		}
		blockID, err := resolveBlockID(ctx, app, args[0])
		if err != nil {
			return err
		}

		err = app.BusyBlockHandler.Remove(ctx, commands.RemoveBusyBlockCommand{
			UserID:  app.CurrentUserID,
			BlockID: blockID,
		})
		if err != nil {
			return fmt.Errorf("failed to remove busy time: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Busy time removed: %s\n", cli.ShortID(blockID))
		return nil
	},
}
