package busy

import (
	"fmt"
	"strings"
	"time"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/queries"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/services"
	"github.com/spf13/cobra"
)

var (
	from string
	days int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List busy time",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := cli.GetApp(ctx)
		if err != nil {
			return err
		}
		loc := app.Location()

		now := time.Now().In(loc)
		fromAt := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		if from != "" {
			fromAt, err = cli.ParseDate(from, loc)
			if err != nil {
				return err
			}
		}
		if days <= 0 {
			return fmt.Errorf("--days must be positive")
		}

		blocks, err := app.ListBusyBlocksHandler.Handle(ctx, queries.ListBusyBlocksQuery{
			UserID: app.CurrentUserID,
			From:   fromAt,
			To:     fromAt.AddDate(0, 0, days),
		})
		if err != nil {
			return fmt.Errorf("failed to list busy time: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(blocks) == 0 {
			fmt.Fprintln(out, "No busy time found.")
			return nil
		}

		fmt.Fprintf(out, "Busy time (%d):\n", len(blocks))
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, b := range blocks {
			fmt.Fprintf(out, "%s  %s - %s  %-6s %s\n",
				b.Start.In(loc).Format("Mon 2006-01-02"),
				b.Start.In(loc).Format("15:04"), b.End.In(loc).Format("15:04"),
				services.FormatMinutes(b.DurationMin), b.Title)
			fmt.Fprintf(out, "   ID: %s (%s)\n", cli.ShortID(b.ID), b.Source)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&from, "from", "", "first day to show (YYYY-MM-DD, default today)")
	listCmd.Flags().IntVar(&days, "days", 14, "number of days to show")
}
