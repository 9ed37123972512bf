package task_test

import (
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(t *testing.T, title string) *task.Task {
	t.Helper()
	tsk, err := task.NewTask(uuid.New(), title)
	require.NoError(t, err)
	tsk.ClearDomainEvents()
	return tsk
}

func TestNewTask(t *testing.T) {
	userID := uuid.New()

	tsk, err := task.NewTask(userID, "  Read chapter 4  ")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tsk.ID())
	assert.Equal(t, userID, tsk.UserID())
	assert.Equal(t, "Read chapter 4", tsk.Title())
	assert.Equal(t, task.StatusPending, tsk.Status())
	assert.Equal(t, value_objects.PriorityMedium, tsk.Priority())
	assert.True(t, tsk.Estimate().IsZero())
	assert.Nil(t, tsk.PlannedDate())
	assert.False(t, tsk.IsDone())

	events := tsk.DomainEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(*task.TaskCreated)
	require.True(t, ok)
	assert.Equal(t, task.RoutingKeyCreated, created.RoutingKey())
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, "medium", created.Priority)
}

func TestNewTask_EmptyTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := task.NewTask(uuid.New(), title)
		assert.ErrorIs(t, err, task.ErrEmptyTitle)
	}
}

func TestTask_PlanFor(t *testing.T) {
	tsk := newTask(t, "essay")
	at := time.Date(2026, time.October, 21, 15, 30, 0, 0, time.FixedZone("UTC+8", 8*3600))

	require.NoError(t, tsk.PlanFor(at, false))

	require.NotNil(t, tsk.PlannedDate())
	assert.Equal(t, time.Date(2026, time.October, 21, 0, 0, 0, 0, time.UTC), *tsk.PlannedDate())
	assert.False(t, tsk.IsDateLocked())
	require.Len(t, tsk.DomainEvents(), 1)
	planned := tsk.DomainEvents()[0].(*task.TaskPlanned)
	assert.Equal(t, "2026-10-21", planned.PlannedDate)

	t.Run("same date is a no-op", func(t *testing.T) {
		require.NoError(t, tsk.PlanFor(at, false))
		assert.Len(t, tsk.DomainEvents(), 1)
	})

	t.Run("locking", func(t *testing.T) {
		require.NoError(t, tsk.LockDate())
		assert.True(t, tsk.IsDateLocked())
		tsk.UnlockDate()
		assert.False(t, tsk.IsDateLocked())
	})

	t.Run("unplan", func(t *testing.T) {
		require.NoError(t, tsk.PlanFor(at, true))
		tsk.Unplan()
		assert.Nil(t, tsk.PlannedDate())
		assert.False(t, tsk.IsDateLocked())
		assert.ErrorIs(t, tsk.LockDate(), task.ErrTaskNotPlanned)
	})

	t.Run("completed task cannot be planned", func(t *testing.T) {
		done := newTask(t, "done")
		require.NoError(t, done.Complete())
		assert.ErrorIs(t, done.PlanFor(at, false), task.ErrTaskAlreadyComplete)
	})
}

func TestTask_Dependencies(t *testing.T) {
	tsk := newTask(t, "write draft")
	other := uuid.New()

	assert.ErrorIs(t, tsk.AddDependency(tsk.ID()), task.ErrSelfDependency)

	require.NoError(t, tsk.AddDependency(other))
	require.NoError(t, tsk.AddDependency(other))
	assert.Equal(t, []uuid.UUID{other}, tsk.DependsOn())
	assert.Len(t, tsk.DomainEvents(), 1)

	deps := tsk.DependsOn()
	deps[0] = uuid.Nil
	assert.Equal(t, other, tsk.DependsOn()[0])

	tsk.RemoveDependency(other)
	assert.Empty(t, tsk.DependsOn())
}

func TestTask_Lifecycle(t *testing.T) {
	tsk := newTask(t, "lab report")

	require.NoError(t, tsk.Start())
	require.NoError(t, tsk.Start())
	assert.Equal(t, task.StatusInProgress, tsk.Status())

	require.NoError(t, tsk.Complete())
	assert.True(t, tsk.IsDone())
	assert.NotNil(t, tsk.CompletedAt())
	assert.ErrorIs(t, tsk.Complete(), task.ErrTaskAlreadyComplete)
	assert.ErrorIs(t, tsk.Start(), task.ErrTaskAlreadyComplete)

	require.NoError(t, tsk.Archive())
	require.NoError(t, tsk.Archive())
	assert.ErrorIs(t, tsk.SetTitle("x"), task.ErrTaskArchived)
}

func TestTask_Setters(t *testing.T) {
	tsk := newTask(t, "read")

	assert.ErrorIs(t, tsk.SetTitle(" "), task.ErrEmptyTitle)
	require.NoError(t, tsk.SetPriority(value_objects.PriorityHigh))
	assert.ErrorIs(t, tsk.SetPriority(value_objects.Priority(9)), value_objects.ErrInvalidPriority)

	estimate, err := value_objects.NewDurationMinutes(90)
	require.NoError(t, err)
	require.NoError(t, tsk.SetEstimate(estimate))
	assert.Equal(t, 90, tsk.Estimate().Minutes())

	deadline := time.Date(2026, time.October, 23, 17, 0, 0, 0, time.FixedZone("UTC+2", 2*3600))
	require.NoError(t, tsk.SetDeadline(&deadline))
	assert.Equal(t, time.UTC, tsk.DeadlineAt().Location())
	assert.True(t, tsk.IsOverdue(deadline.Add(time.Minute)))
	assert.False(t, tsk.IsOverdue(deadline.Add(-time.Minute)))
}

func TestParseStatus(t *testing.T) {
	s, ok := task.ParseStatus("in_progress")
	assert.True(t, ok)
	assert.Equal(t, task.StatusInProgress, s)

	_, ok = task.ParseStatus("blocked")
	assert.False(t, ok)
}
