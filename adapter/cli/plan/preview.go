package plan

import (
	"fmt"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/queries"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/services"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/infrastructure/snapshot"
	"github.com/spf13/cobra"
)

var snapshotFile string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show what auto-planning would do",
	Long: `Show the plan auto-planning would produce without saving anything.
With --file the planner runs offline on a YAML snapshot and no database
is opened.

Examples:
  tired plan preview
  tired plan preview --file week.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if snapshotFile != "" {
			snap, err := snapshot.ReadFile(snapshotFile)
			if err != nil {
				return fmt.Errorf("failed to read snapshot: %w", err)
			}
			planner := services.NewAutoPlanner(domain.FixedClock{At: snap.Now}, nil, cli.Logger())
			report := planner.PlanWithReport(snap.Tasks, snap.Busy, snap.Options)

			fmt.Fprintf(out, "Snapshot %s at %s\n", snapshotFile, snap.Now.In(snap.Options.Location).Format("2006-01-02 15:04"))
			printReport(out, report, func(t domain.PlanTask) string {
				return fmt.Sprintf("%s [%s]", t.Title, snap.Keys[t.ID])
			})
			return nil
		}

		ctx := cmd.Context()
		app, err := cli.GetApp(ctx)
		if err != nil {
			return err
		}
		report, err := app.PreviewPlanHandler.Handle(ctx, queries.PreviewPlanQuery{UserID: app.CurrentUserID})
		if err != nil {
			return fmt.Errorf("preview failed: %w", err)
		}
		printReport(out, report, titleLabel)
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVarP(&snapshotFile, "file", "f", "", "plan a YAML snapshot offline")
}
