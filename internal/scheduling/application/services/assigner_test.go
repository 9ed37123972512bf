package services

import (
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assignOne(t *testing.T, task domain.PlanTask, loads domain.DayLoadMap, capacity int) AssignResult {
	t.Helper()
	window := BuildWindow(mondayDay, 14, domain.DefaultWorkdays, false)
	return Assign([]domain.PlanTask{task}, loads, window, mondayDay, capacity, domain.DefaultPriorityWeights(), time.UTC)
}

func TestAssign_SingleTaskLandsToday(t *testing.T) {
	result := assignOne(t, newTask("write report", 60), domain.DayLoadMap{}, 480)

	require.Equal(t, 1, result.ScheduledCount)
	require.NotNil(t, result.Tasks[0].PlannedDate)
	assert.Equal(t, mondayDay, *result.Tasks[0].PlannedDate)
	assert.False(t, result.Placements[0].Fallback)
}

func TestAssign_FullDayPushesToNextDay(t *testing.T) {
	first := newTask("first", 60)
	second := newTask("second", 60)
	window := BuildWindow(mondayDay, 14, domain.DefaultWorkdays, false)
	loads := domain.DayLoadMap{}

	result := Assign([]domain.PlanTask{first, second}, loads, window, mondayDay, 60, domain.DefaultPriorityWeights(), time.UTC)

	require.Equal(t, 2, result.ScheduledCount)
	assert.Equal(t, mondayDay, *result.Tasks[0].PlannedDate)
	assert.Equal(t, mondayDay.AddDays(1), *result.Tasks[1].PlannedDate)
	assert.Equal(t, 60, loads.Load(mondayDay))
	assert.Equal(t, 60, loads.Load(mondayDay.AddDays(1)))
}

func TestAssign_DeadlinePullsTowardLastSafeDay(t *testing.T) {
	// Due Thursday: Wednesday and Thursday both get the larger bonus and the
	// earlier one wins the tie.
	task := withDeadline(newTask("essay", 60), mondayDay.AddDays(3), 17)

	result := assignOne(t, task, domain.DayLoadMap{}, 480)

	require.Equal(t, 1, result.ScheduledCount)
	assert.Equal(t, mondayDay.AddDays(2), *result.Tasks[0].PlannedDate)
}

func TestAssign_NearDeadlineBonus(t *testing.T) {
	// Due the following Monday: only the Friday before is within three days.
	task := withDeadline(newTask("lab prep", 60), mondayDay.AddDays(7), 9)
	loads := domain.DayLoadMap{mondayDay.AddDays(4): 400}

	result := assignOne(t, task, loads, 480)

	// Friday scores 400-500, Monday+7 scores 0-1000.
	assert.Equal(t, mondayDay.AddDays(7), *result.Tasks[0].PlannedDate)
}

func TestAssign_NeverPassesDeadline(t *testing.T) {
	task := withDeadline(newTask("due today", 120), mondayDay, 18)
	loads := domain.DayLoadMap{mondayDay: 300}

	result := assignOne(t, task, loads, 480)

	require.Equal(t, 1, result.ScheduledCount)
	assert.Equal(t, mondayDay, *result.Tasks[0].PlannedDate)
}

func TestAssign_HighPriorityPrefersEarlierDays(t *testing.T) {
	loads := func() domain.DayLoadMap { return domain.DayLoadMap{mondayDay: 5} }

	medium := assignOne(t, newTask("medium", 60), loads(), 480)
	assert.Equal(t, mondayDay.AddDays(1), *medium.Tasks[0].PlannedDate)

	high := assignOne(t, withPriority(newTask("high", 60), value_objects.PriorityHigh), loads(), 480)
	assert.Equal(t, mondayDay, *high.Tasks[0].PlannedDate)
}

func TestAssign_SoftCeilingAllowsTenPercent(t *testing.T) {
	window := []domain.Day{mondayDay, mondayDay.AddDays(1)}
	loads := func() domain.DayLoadMap {
		return domain.DayLoadMap{mondayDay: 40, mondayDay.AddDays(1): 45}
	}

	fits := Assign([]domain.PlanTask{newTask("fits", 70)}, loads(), window, mondayDay, 100,
		domain.DefaultPriorityWeights(), time.UTC)
	require.Equal(t, 1, fits.ScheduledCount)
	assert.Equal(t, mondayDay, *fits.Tasks[0].PlannedDate)
	assert.False(t, fits.Placements[0].Fallback)

	over := Assign([]domain.PlanTask{newTask("over", 71)}, loads(), window, mondayDay, 100,
		domain.DefaultPriorityWeights(), time.UTC)
	require.Equal(t, 1, over.ScheduledCount)
	assert.Equal(t, mondayDay, *over.Tasks[0].PlannedDate)
	assert.True(t, over.Placements[0].Fallback)
}

func TestAssign_Fallback(t *testing.T) {
	window := []domain.Day{mondayDay, mondayDay.AddDays(1)}

	t.Run("least loaded day under capacity", func(t *testing.T) {
		loads := domain.DayLoadMap{mondayDay: 60, mondayDay.AddDays(1): 50}
		result := Assign([]domain.PlanTask{newTask("big", 80)}, loads, window, mondayDay, 100,
			domain.DefaultPriorityWeights(), time.UTC)

		require.Equal(t, 1, result.ScheduledCount)
		assert.Equal(t, mondayDay.AddDays(1), *result.Tasks[0].PlannedDate)
		assert.True(t, result.Placements[0].Fallback)
		assert.Equal(t, 130, loads.Load(mondayDay.AddDays(1)))
	})

	t.Run("ties go to the earlier day", func(t *testing.T) {
		loads := domain.DayLoadMap{mondayDay: 50, mondayDay.AddDays(1): 50}
		result := Assign([]domain.PlanTask{newTask("big", 80)}, loads, window, mondayDay, 100,
			domain.DefaultPriorityWeights(), time.UTC)
		assert.Equal(t, mondayDay, *result.Tasks[0].PlannedDate)
	})

	t.Run("every day at capacity leaves the task unplaced", func(t *testing.T) {
		loads := domain.DayLoadMap{mondayDay: 100, mondayDay.AddDays(1): 120}
		result := Assign([]domain.PlanTask{newTask("big", 80)}, loads, window, mondayDay, 100,
			domain.DefaultPriorityWeights(), time.UTC)

		assert.Equal(t, 0, result.ScheduledCount)
		assert.Nil(t, result.Tasks[0].PlannedDate)
		assert.Equal(t, 100, loads.Load(mondayDay))
	})

	t.Run("expired deadline has no fallback", func(t *testing.T) {
		task := withDeadline(newTask("late", 30), mondayDay.AddDays(-2), 12)
		result := Assign([]domain.PlanTask{task}, domain.DayLoadMap{}, window, mondayDay, 100,
			domain.DefaultPriorityWeights(), time.UTC)

		assert.Equal(t, 0, result.ScheduledCount)
		assert.Nil(t, result.Tasks[0].PlannedDate)
	})
}

func TestAssign_SkipsNonCandidates(t *testing.T) {
	locked := newTask("locked", 30)
	locked.IsDateLocked = true

	result := assignOne(t, locked, domain.DayLoadMap{}, 480)

	assert.Equal(t, 0, result.ScheduledCount)
	assert.Equal(t, locked, result.Tasks[0])
}
