package commands

import (
	"context"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/planning"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/metrics"
	"github.com/google/uuid"
)

// AutoPlanCommand asks for the user's open tasks to be placed on days.
type AutoPlanCommand struct {
	UserID uuid.UUID
	DryRun bool
}

// AutoPlanResult contains the report of the run. RunID is zero for dry runs.
type AutoPlanResult struct {
	RunID        uuid.UUID
	Report       domain.Report
	ChangedTasks int
	DryRun       bool
}

// AutoPlanHandler handles the AutoPlanCommand.
type AutoPlanHandler struct {
	deps PlanDeps
}

// NewAutoPlanHandler creates a new AutoPlanHandler.
func NewAutoPlanHandler(deps PlanDeps) *AutoPlanHandler {
	return &AutoPlanHandler{deps: deps.withDefaults()}
}

// Handle executes the AutoPlanCommand.
func (h *AutoPlanHandler) Handle(ctx context.Context, cmd AutoPlanCommand) (result *AutoPlanResult, err error) {
	started := time.Now()
	if !cmd.DryRun {
		defer func() {
			metrics.RecordPlanRun(string(domain.PlanRunAuto), err, time.Since(started))
		}()

		release, lerr := h.deps.acquire(ctx, cmd.UserID)
		if lerr != nil {
			return nil, lerr
		}
		defer h.deps.release(ctx, release, cmd.UserID)
	}

	snap, err := h.deps.Loader.Load(ctx, cmd.UserID, true)
	if err != nil {
		return nil, err
	}

	report := h.deps.Planner.At(snap.Now).PlanWithReport(snap.PlanTasks(), snap.Busy, snap.Options)
	if cmd.DryRun {
		return &AutoPlanResult{Report: report, ChangedTasks: len(report.Placements), DryRun: true}, nil
	}

	changed, err := planning.ApplyPlan(snap.Tasks, report.Tasks)
	if err != nil {
		return nil, err
	}
	result = &AutoPlanResult{Report: report, ChangedTasks: len(changed)}

	run := domain.NewAutoPlanRun(cmd.UserID, snap.Now, report, snap.Options.WeekStart)
	if err := h.deps.persist(ctx, cmd.UserID, changed, run); err != nil {
		return nil, err
	}
	result.RunID = run.ID()

	skipped := make(map[string]int)
	for _, s := range report.SkippedTasks {
		skipped[string(s.Reason)]++
	}
	metrics.RecordAutoPlan(report.ScheduledCount(), skipped, len(report.OverloadedDays))

	h.deps.Logger.Info("auto plan completed",
		"user_id", cmd.UserID,
		"scheduled", report.ScheduledCount(),
		"skipped", len(report.SkippedTasks),
		"overloaded_days", len(report.OverloadedDays),
		"changed", len(changed),
	)
	return result, nil
}
