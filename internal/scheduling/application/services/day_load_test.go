package services

import (
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
)

func TestSeedDayLoad_BusyIntervals(t *testing.T) {
	start, end := mondayDay, mondayDay.AddDays(7)

	t.Run("single day block", func(t *testing.T) {
		loads := SeedDayLoad(nil, []domain.BusyInterval{busyOn(mondayDay, 9, 90)}, start, end, time.UTC)
		assert.Equal(t, 90, loads.Load(mondayDay))
		assert.Len(t, loads, 1)
	})

	t.Run("block spanning three days is split by intersection", func(t *testing.T) {
		block := domain.BusyInterval{
			Start: mondayDay.Start(time.UTC).Add(23 * time.Hour),
			End:   mondayDay.AddDays(2).Start(time.UTC).Add(time.Hour),
		}
		loads := SeedDayLoad(nil, []domain.BusyInterval{block}, start, end, time.UTC)

		assert.Equal(t, 60, loads.Load(mondayDay))
		assert.Equal(t, 1440, loads.Load(mondayDay.AddDays(1)))
		assert.Equal(t, 60, loads.Load(mondayDay.AddDays(2)))
	})

	t.Run("block ending at midnight adds nothing to the next day", func(t *testing.T) {
		block := domain.BusyInterval{
			Start: mondayDay.Start(time.UTC).Add(22 * time.Hour),
			End:   mondayDay.AddDays(1).Start(time.UTC),
		}
		loads := SeedDayLoad(nil, []domain.BusyInterval{block}, start, end, time.UTC)
		assert.Equal(t, 120, loads.Load(mondayDay))
		_, present := loads[mondayDay.AddDays(1)]
		assert.False(t, present)
	})

	t.Run("malformed blocks contribute zero", func(t *testing.T) {
		at := mondayDay.Start(time.UTC).Add(10 * time.Hour)
		loads := SeedDayLoad(nil, []domain.BusyInterval{
			{Start: at, End: at},
			{Start: at, End: at.Add(-time.Hour)},
		}, start, end, time.UTC)
		assert.Empty(t, loads)
	})

	t.Run("only the part inside the window counts", func(t *testing.T) {
		block := domain.BusyInterval{
			Start: mondayDay.AddDays(-1).Start(time.UTC).Add(20 * time.Hour),
			End:   mondayDay.Start(time.UTC).Add(2 * time.Hour),
		}
		loads := SeedDayLoad(nil, []domain.BusyInterval{block}, start, end, time.UTC)
		assert.Equal(t, 120, loads.Load(mondayDay))
		assert.Len(t, loads, 1)
	})

	t.Run("split follows the planning zone", func(t *testing.T) {
		plus8 := time.FixedZone("UTC+8", 8*60*60)
		// 15:00-17:00 UTC is 23:00-01:00 in UTC+8.
		block := domain.BusyInterval{
			Start: mondayDay.Start(time.UTC).Add(15 * time.Hour),
			End:   mondayDay.Start(time.UTC).Add(17 * time.Hour),
		}
		loads := SeedDayLoad(nil, []domain.BusyInterval{block}, start, end, plus8)
		assert.Equal(t, 60, loads.Load(mondayDay))
		assert.Equal(t, 60, loads.Load(mondayDay.AddDays(1)))
	})
}

func TestSeedDayLoad_PlannedTasks(t *testing.T) {
	start, end := mondayDay, mondayDay.AddDays(7)

	inWindow := plannedOn(newTask("in window", 45), mondayDay.AddDays(1))
	noEstimate := plannedOn(newTask("no estimate", 0), mondayDay.AddDays(1))
	done := plannedOn(newTask("done", 30), mondayDay)
	done.IsDone = true
	before := plannedOn(newTask("before window", 30), mondayDay.AddDays(-1))
	after := plannedOn(newTask("window end is exclusive", 30), end)
	locked := plannedOn(newTask("locked", 20), mondayDay)
	locked.IsDateLocked = true
	unplanned := newTask("candidate", 30)

	loads := SeedDayLoad(
		[]domain.PlanTask{inWindow, noEstimate, done, before, after, locked, unplanned},
		nil, start, end, time.UTC,
	)

	assert.Equal(t, 105, loads.Load(mondayDay.AddDays(1)))
	assert.Equal(t, 20, loads.Load(mondayDay))
	assert.Len(t, loads, 2)
}

func TestSeedDayLoad_ReturnsFreshMap(t *testing.T) {
	busy := []domain.BusyInterval{busyOn(mondayDay, 9, 60)}
	first := SeedDayLoad(nil, busy, mondayDay, mondayDay.AddDays(1), time.UTC)
	first.Add(mondayDay, 500)

	second := SeedDayLoad(nil, busy, mondayDay, mondayDay.AddDays(1), time.UTC)
	assert.Equal(t, 60, second.Load(mondayDay))
}
