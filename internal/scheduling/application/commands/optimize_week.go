package commands

import (
	"context"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/planning"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/metrics"
	"github.com/google/uuid"
)

// OptimizeWeekCommand asks for overloaded days to be rebalanced.
type OptimizeWeekCommand struct {
	UserID uuid.UUID
}

// OptimizeWeekResult lists the moves that were saved.
type OptimizeWeekResult struct {
	RunID uuid.UUID
	Moves []domain.Move
}

// OptimizeWeekHandler handles the OptimizeWeekCommand.
type OptimizeWeekHandler struct {
	deps PlanDeps
}

// NewOptimizeWeekHandler creates a new OptimizeWeekHandler.
func NewOptimizeWeekHandler(deps PlanDeps) *OptimizeWeekHandler {
	return &OptimizeWeekHandler{deps: deps.withDefaults()}
}

// Handle executes the OptimizeWeekCommand. A pass without moves saves
// nothing.
func (h *OptimizeWeekHandler) Handle(ctx context.Context, cmd OptimizeWeekCommand) (result *OptimizeWeekResult, err error) {
	started := time.Now()
	defer func() {
		metrics.RecordPlanRun(string(domain.PlanRunOptimize), err, time.Since(started))
	}()

	release, err := h.deps.acquire(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	defer h.deps.release(ctx, release, cmd.UserID)

	snap, err := h.deps.Loader.Load(ctx, cmd.UserID, true)
	if err != nil {
		return nil, err
	}

	optimized := h.deps.Planner.At(snap.Now).Optimize(snap.PlanTasks(), snap.Busy, snap.Options)
	result = &OptimizeWeekResult{Moves: optimized.Moves}
	if len(optimized.Moves) == 0 {
		return result, nil
	}

	changed, err := planning.ApplyPlan(snap.Tasks, optimized.Tasks)
	if err != nil {
		return nil, err
	}
	run := domain.NewOptimizeRun(cmd.UserID, snap.Now, optimized, snap.Options.WeekStart)
	if err := h.deps.persist(ctx, cmd.UserID, changed, run); err != nil {
		return nil, err
	}
	result.RunID = run.ID()

	metrics.RecordMoves(len(optimized.Moves))
	h.deps.Logger.Info("week optimized", "user_id", cmd.UserID, "moves", len(optimized.Moves))
	return result, nil
}
