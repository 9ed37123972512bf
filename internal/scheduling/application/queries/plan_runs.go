package queries

import (
	"context"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
)

// PlanRunDTO is a data transfer object for plan runs.
type PlanRunDTO struct {
	ID             uuid.UUID    `json:"id"`
	Kind           string       `json:"kind"`
	RanAt          time.Time    `json:"ran_at"`
	WeekStart      domain.Day   `json:"week_start"`
	ScheduledCount int          `json:"scheduled_count"`
	SkippedCount   int          `json:"skipped_count"`
	MovedCount     int          `json:"moved_count"`
	OverloadedDays []domain.Day `json:"overloaded_days"`
	Suggestions    []string     `json:"suggestions"`
}

// ListPlanRunsQuery contains the parameters for the run history.
type ListPlanRunsQuery struct {
	UserID uuid.UUID
	Limit  int
}

// ListPlanRunsHandler handles the ListPlanRunsQuery.
type ListPlanRunsHandler struct {
	repo domain.PlanRunRepository
}

// NewListPlanRunsHandler creates a new ListPlanRunsHandler.
func NewListPlanRunsHandler(repo domain.PlanRunRepository) *ListPlanRunsHandler {
	return &ListPlanRunsHandler{repo: repo}
}

// Handle executes the ListPlanRunsQuery, newest first.
func (h *ListPlanRunsHandler) Handle(ctx context.Context, query ListPlanRunsQuery) ([]PlanRunDTO, error) {
	runs, err := h.repo.ListRecent(ctx, query.UserID, query.Limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]PlanRunDTO, 0, len(runs))
	for _, r := range runs {
		dtos = append(dtos, PlanRunDTO{
			ID:             r.ID(),
			Kind:           string(r.Kind()),
			RanAt:          r.RanAt(),
			WeekStart:      r.WeekStart(),
			ScheduledCount: r.ScheduledCount(),
			SkippedCount:   r.SkippedCount(),
			MovedCount:     r.MovedCount(),
			OverloadedDays: r.OverloadedDays(),
			Suggestions:    r.Suggestions(),
		})
	}
	return dtos, nil
}
