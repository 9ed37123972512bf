package busy

import (
	"fmt"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var (
	start string
	end   string
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add busy time",
	Long: `Add a busy interval. Times are in the planning time zone.

Examples:
  tired busy add "Linear algebra" --start "2026-10-21 09:00" --end "2026-10-21 12:00"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := cli.GetApp(ctx)
		if err != nil {
			return err
		}
		loc := app.Location()

		startAt, err := cli.ParseDateTime(start, loc)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		endAt, err := cli.ParseDateTime(end, loc)
		if err != nil {
			return fmt.Errorf("--end: %w", err)
		}

		result, err := app.BusyBlockHandler.Add(ctx, commands.AddBusyBlockCommand{
			UserID: app.CurrentUserID,
			Title:  args[0],
			Start:  startAt,
			End:    endAt,
		})
		if err != nil {
			return fmt.Errorf("failed to add busy time: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Busy time added: %s\n", cli.ShortID(result.BlockID))
		fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s - %s\n", args[0],
			startAt.In(loc).Format("Mon 2006-01-02 15:04"), endAt.In(loc).Format("15:04"))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&start, "start", "", "start time (\"YYYY-MM-DD HH:MM\")")
	addCmd.Flags().StringVar(&end, "end", "", "end time (\"YYYY-MM-DD HH:MM\")")
	_ = addCmd.MarkFlagRequired("start")
	_ = addCmd.MarkFlagRequired("end")
}
