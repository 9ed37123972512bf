package queries

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	"github.com/google/uuid"
)

// ListTasksQuery contains the parameters for listing tasks.
type ListTasksQuery struct {
	UserID uuid.UUID
	// Status is a status name, "open" for pending and in progress, or
	// "all". Empty means "open".
	Status string
	// PlannedOn keeps only tasks planned on that calendar date.
	PlannedOn *time.Time
	// Unscheduled keeps only tasks without a planned date.
	Unscheduled bool
	Limit       int
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo task.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle returns matching tasks, planned ones first by date, then by
// priority and creation time.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	statusFilter, err := parseStatusFilter(query.Status)
	if err != nil {
		return nil, err
	}

	all, err := h.taskRepo.FindByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	var day string
	if query.PlannedOn != nil {
		day = query.PlannedOn.Format(time.DateOnly)
	}

	matched := make([]*task.Task, 0, len(all))
	for _, t := range all {
		if !statusFilter(t) {
			continue
		}
		if query.Unscheduled && t.PlannedDate() != nil {
			continue
		}
		if day != "" && (t.PlannedDate() == nil || t.PlannedDate().Format(time.DateOnly) != day) {
			continue
		}
		matched = append(matched, t)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch {
		case a.PlannedDate() == nil && b.PlannedDate() != nil:
			return false
		case a.PlannedDate() != nil && b.PlannedDate() == nil:
			return true
		case a.PlannedDate() != nil && !a.PlannedDate().Equal(*b.PlannedDate()):
			return a.PlannedDate().Before(*b.PlannedDate())
		case a.Priority() != b.Priority():
			return a.Priority().Rank() > b.Priority().Rank()
		default:
			return a.CreatedAt().Before(b.CreatedAt())
		}
	})

	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}

	out := make([]TaskDTO, 0, len(matched))
	for _, t := range matched {
		out = append(out, toDTO(t, all))
	}
	return out, nil
}

func parseStatusFilter(s string) (func(*task.Task) bool, error) {
	switch s {
	case "", "open":
		return func(t *task.Task) bool { return !t.IsDone() }, nil
	case "all":
		return func(*task.Task) bool { return true }, nil
	}
	status, ok := task.ParseStatus(s)
	if !ok {
		return nil, fmt.Errorf("unknown status filter %q", s)
	}
	return func(t *task.Task) bool { return t.Status() == status }, nil
}
