package mcp

import (
	"context"
	"fmt"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/commands"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/queries"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/felixgeelhaar/mcp-go"
	"github.com/google/uuid"
)

type planAutoInput struct {
	DryRun bool `json:"dry_run,omitempty"`
}

type planWeekLoadInput struct {
	// WeekOf is any date of the week, default the current week.
	WeekOf string `json:"week_of,omitempty"`
}

type emptyInput struct{}

type placementOutput struct {
	TaskID   uuid.UUID  `json:"task_id"`
	Title    string     `json:"title"`
	Day      domain.Day `json:"day"`
	Minutes  int        `json:"minutes"`
	Fallback bool       `json:"fallback,omitempty"`
}

type skippedOutput struct {
	TaskID uuid.UUID         `json:"task_id"`
	Title  string            `json:"title"`
	Reason domain.SkipReason `json:"reason"`
}

type reportOutput struct {
	RunID          *uuid.UUID        `json:"run_id,omitempty"`
	DryRun         bool              `json:"dry_run"`
	ScheduledCount int               `json:"scheduled_count"`
	TotalMinutes   int               `json:"total_scheduled_minutes"`
	Placements     []placementOutput `json:"placements"`
	Skipped        []skippedOutput   `json:"skipped"`
	OverloadedDays []domain.Day      `json:"overloaded_days"`
	WeekLoads      []domain.DayLoad  `json:"week_loads"`
	Suggestions    []string          `json:"suggestions"`
}

type moveOutput struct {
	TaskID  uuid.UUID  `json:"task_id"`
	From    domain.Day `json:"from"`
	To      domain.Day `json:"to"`
	Minutes int        `json:"minutes"`
}

type optimizeOutput struct {
	RunID *uuid.UUID   `json:"run_id,omitempty"`
	Moves []moveOutput `json:"moves"`
}

type planTools struct {
	app *cli.App
}

func registerPlanTools(srv *mcp.Server, t planTools) {
	srv.Tool("plan.preview").
		Description("Show what auto-planning would do without saving anything").
		Handler(t.preview)

	srv.Tool("plan.auto").
		Description("Place open tasks on days before their deadlines and save the result").
		Handler(t.auto)

	srv.Tool("plan.optimize").
		Description("Move tasks off this week's overloaded days onto lighter ones").
		Handler(t.optimize)

	srv.Tool("plan.week_load").
		Description("Per-day load of a week against the daily capacity").
		Handler(t.weekLoad)
}

func (t planTools) preview(ctx context.Context, _ emptyInput) (*reportOutput, error) {
	if t.app.Container == nil {
		return nil, errNoDatabase
	}
	report, err := t.app.PreviewPlanHandler.Handle(ctx, queries.PreviewPlanQuery{UserID: t.app.CurrentUserID})
	if err != nil {
		return nil, err
	}
	out := toReportOutput(report)
	out.DryRun = true
	return out, nil
}

func (t planTools) auto(ctx context.Context, input planAutoInput) (*reportOutput, error) {
	if t.app.Container == nil {
		return nil, errNoDatabase
	}
	result, err := t.app.AutoPlanHandler.Handle(ctx, commands.AutoPlanCommand{
		UserID: t.app.CurrentUserID,
		DryRun: input.DryRun,
	})
	if err != nil {
		return nil, err
	}
	out := toReportOutput(result.Report)
	out.DryRun = result.DryRun
	if !result.DryRun {
		out.RunID = &result.RunID
	}
	return out, nil
}

func (t planTools) optimize(ctx context.Context, _ emptyInput) (*optimizeOutput, error) {
	if t.app.Container == nil {
		return nil, errNoDatabase
	}
	result, err := t.app.OptimizeWeekHandler.Handle(ctx, commands.OptimizeWeekCommand{UserID: t.app.CurrentUserID})
	if err != nil {
		return nil, err
	}

	out := &optimizeOutput{Moves: make([]moveOutput, 0, len(result.Moves))}
	if result.RunID != uuid.Nil {
		out.RunID = &result.RunID
	}
	for _, m := range result.Moves {
		out.Moves = append(out.Moves, moveOutput{TaskID: m.TaskID, From: m.From, To: m.To, Minutes: m.Minutes})
	}
	return out, nil
}

func (t planTools) weekLoad(ctx context.Context, input planWeekLoadInput) (*queries.WeekLoadDTO, error) {
	if t.app.Container == nil {
		return nil, errNoDatabase
	}
	query := queries.GetWeekLoadQuery{UserID: t.app.CurrentUserID}
	if input.WeekOf != "" {
		d, err := domain.ParseDay(input.WeekOf)
		if err != nil {
			return nil, fmt.Errorf("invalid week_of, use YYYY-MM-DD: %w", err)
		}
		query.WeekStart = d.WeekStart().Ptr()
	}
	return t.app.GetWeekLoadHandler.Handle(ctx, query)
}

func toReportOutput(report domain.Report) *reportOutput {
	titles := make(map[uuid.UUID]string, len(report.Tasks))
	for _, task := range report.Tasks {
		titles[task.ID] = task.Title
	}

	out := &reportOutput{
		ScheduledCount: report.ScheduledCount(),
		TotalMinutes:   report.TotalScheduledMinutes,
		Placements:     make([]placementOutput, 0, len(report.Placements)),
		Skipped:        make([]skippedOutput, 0, len(report.SkippedTasks)),
		OverloadedDays: report.OverloadedDays,
		WeekLoads:      report.WeekLoads,
		Suggestions:    report.Suggestions,
	}
	for _, p := range report.Placements {
		out.Placements = append(out.Placements, placementOutput{
			TaskID:   p.TaskID,
			Title:    titles[p.TaskID],
			Day:      p.Day,
			Minutes:  p.Minutes,
			Fallback: p.Fallback,
		})
	}
	for _, s := range report.SkippedTasks {
		out.Skipped = append(out.Skipped, skippedOutput{TaskID: s.Task.ID, Title: s.Task.Title, Reason: s.Reason})
	}
	return out
}
