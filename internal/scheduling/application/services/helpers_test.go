package services

import (
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// monday is 2026-10-19, 09:00 UTC.
var (
	monday    = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	mondayDay = domain.NewDay(2026, time.October, 19)
)

func testOptions(t *testing.T, now time.Time, extra ...domain.AutoPlanOption) domain.AutoPlanOptions {
	t.Helper()
	options := append([]domain.AutoPlanOption{domain.WithLocation(time.UTC)}, extra...)
	opts, err := domain.NewAutoPlanOptions(now, options...)
	require.NoError(t, err)
	return opts
}

func newTask(title string, minutes int) domain.PlanTask {
	return domain.PlanTask{
		ID:               uuid.New(),
		Title:            title,
		Priority:         value_objects.PriorityMedium,
		EstimatedMinutes: minutes,
		CreatedAt:        monday.Add(-24 * time.Hour),
	}
}

func withPriority(task domain.PlanTask, p value_objects.Priority) domain.PlanTask {
	task.Priority = p
	return task
}

func withDeadline(task domain.PlanTask, day domain.Day, hour int) domain.PlanTask {
	deadline := day.Start(time.UTC).Add(time.Duration(hour) * time.Hour)
	task.DeadlineAt = &deadline
	return task
}

func plannedOn(task domain.PlanTask, day domain.Day) domain.PlanTask {
	task.PlannedDate = day.Ptr()
	return task
}

func busyOn(day domain.Day, startHour, minutes int) domain.BusyInterval {
	start := day.Start(time.UTC).Add(time.Duration(startHour) * time.Hour)
	return domain.BusyInterval{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
}

func taskByID(tasks []domain.PlanTask, id uuid.UUID) domain.PlanTask {
	for _, t := range tasks {
		if t.ID == id {
			return t
		}
	}
	return domain.PlanTask{}
}

func newTestPlanner(now time.Time) *AutoPlanner {
	return NewAutoPlanner(domain.FixedClock{At: now}, nil, nil)
}
