package queries

import (
	"context"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/planning"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/services"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
)

// PreviewPlanQuery asks what an auto-plan run would do right now.
type PreviewPlanQuery struct {
	UserID uuid.UUID
}

// PreviewPlanHandler handles the PreviewPlanQuery. It saves nothing.
type PreviewPlanHandler struct {
	loader  *planning.Loader
	planner *services.AutoPlanner
}

// NewPreviewPlanHandler creates a new PreviewPlanHandler.
func NewPreviewPlanHandler(loader *planning.Loader, planner *services.AutoPlanner) *PreviewPlanHandler {
	return &PreviewPlanHandler{loader: loader, planner: planner}
}

// Handle executes the PreviewPlanQuery.
func (h *PreviewPlanHandler) Handle(ctx context.Context, query PreviewPlanQuery) (domain.Report, error) {
	snap, err := h.loader.Load(ctx, query.UserID, true)
	if err != nil {
		return domain.Report{}, err
	}
	return h.planner.At(snap.Now).PlanWithReport(snap.PlanTasks(), snap.Busy, snap.Options), nil
}
