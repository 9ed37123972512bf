// Package planning connects the pure planner to stored tasks and busy
// time sources.
package planning

import (
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ToPlanTask builds the planner snapshot of t. Planned dates are calendar
// dates and map to days without a time zone.
func ToPlanTask(t *task.Task) domain.PlanTask {
	pt := domain.PlanTask{
		ID:               t.ID(),
		Title:            t.Title(),
		Priority:         t.Priority(),
		EstimatedMinutes: t.Estimate().Minutes(),
		DeadlineAt:       t.DeadlineAt(),
		IsDateLocked:     t.IsDateLocked(),
		IsDone:           t.IsDone(),
		DependsOn:        t.DependsOn(),
		CreatedAt:        t.CreatedAt(),
	}
	if p := t.PlannedDate(); p != nil {
		pt.PlannedDate = domain.DayOf(*p, time.UTC).Ptr()
	}
	return pt
}

// ToPlanTasks maps tasks in order.
func ToPlanTasks(tasks []*task.Task) []domain.PlanTask {
	out := make([]domain.PlanTask, len(tasks))
	for i, t := range tasks {
		out[i] = ToPlanTask(t)
	}
	return out
}

// ApplyPlan copies planned dates from the planner output back onto the
// aggregates and returns the ones that changed, in output order. Snapshots
// without a matching task are ignored.
func ApplyPlan(tasks []*task.Task, planned []domain.PlanTask) ([]*task.Task, error) {
	byID := make(map[uuid.UUID]*task.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID()] = t
	}

	var changed []*task.Task
	for _, pt := range planned {
		t, ok := byID[pt.ID]
		if !ok || !planDiffers(t, pt) {
			continue
		}
		if pt.PlannedDate == nil {
			t.Unplan()
		} else if err := t.PlanFor(pt.PlannedDate.Start(time.UTC), pt.IsDateLocked); err != nil {
			return nil, err
		}
		changed = append(changed, t)
	}
	return changed, nil
}

func planDiffers(t *task.Task, pt domain.PlanTask) bool {
	current := ToPlanTask(t)
	switch {
	case current.PlannedDate == nil && pt.PlannedDate == nil:
		return false
	case current.PlannedDate == nil || pt.PlannedDate == nil:
		return true
	default:
		return *current.PlannedDate != *pt.PlannedDate || current.IsDateLocked != pt.IsDateLocked
	}
}
