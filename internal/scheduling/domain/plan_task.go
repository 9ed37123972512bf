package domain

import (
	"slices"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
	"github.com/google/uuid"
)

// DefaultTaskMinutes is reserved for tasks without a usable estimate.
const DefaultTaskMinutes = 60

// PlanTask is the planner's snapshot of a task. Only the fields that matter
// for placement are carried.
type PlanTask struct {
	ID               uuid.UUID
	Title            string
	Priority         value_objects.Priority
	EstimatedMinutes int
	DeadlineAt       *time.Time
	PlannedDate      *Day
	IsDateLocked     bool
	IsDone           bool
	DependsOn        []uuid.UUID
	CreatedAt        time.Time
}

// IsCandidate reports whether the task is open for automatic placement.
func (t PlanTask) IsCandidate() bool {
	return !t.IsDone && !t.IsDateLocked && t.PlannedDate == nil
}

// Minutes returns the time to reserve for the task.
func (t PlanTask) Minutes() int {
	if t.EstimatedMinutes <= 0 {
		return DefaultTaskMinutes
	}
	return t.EstimatedMinutes
}

// DeadlineDay returns the date of the deadline in loc.
func (t PlanTask) DeadlineDay(loc *time.Location) (Day, bool) {
	if t.DeadlineAt == nil {
		return 0, false
	}
	return DayOf(*t.DeadlineAt, loc), true
}

// IsOverdue reports whether an unfinished task is past its deadline.
func (t PlanTask) IsOverdue(now time.Time) bool {
	return !t.IsDone && t.DeadlineAt != nil && t.DeadlineAt.Before(now)
}

// Clone returns a copy that shares no pointers with t.
func (t PlanTask) Clone() PlanTask {
	c := t
	if t.DeadlineAt != nil {
		deadline := *t.DeadlineAt
		c.DeadlineAt = &deadline
	}
	if t.PlannedDate != nil {
		c.PlannedDate = t.PlannedDate.Ptr()
	}
	c.DependsOn = slices.Clone(t.DependsOn)
	return c
}

// CloneTasks deep copies a task slice.
func CloneTasks(tasks []PlanTask) []PlanTask {
	out := make([]PlanTask, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
