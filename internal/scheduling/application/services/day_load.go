package services

import (
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
)

// SeedDayLoad builds the committed minutes for each day in [windowStart, windowEnd).
//
// Busy intervals are split at local midnight and each day receives only the
// part of the interval that falls inside it. Planned tasks that are not done
// add their estimate to their planned day. Malformed intervals add nothing.
// The returned map is always new.
func SeedDayLoad(
	tasks []domain.PlanTask,
	busy []domain.BusyInterval,
	windowStart, windowEnd domain.Day,
	loc *time.Location,
) domain.DayLoadMap {
	loads := make(domain.DayLoadMap)
	if windowEnd <= windowStart {
		return loads
	}

	for _, b := range busy {
		addBusyInterval(loads, b, windowStart, windowEnd, loc)
	}

	for _, t := range tasks {
		if t.IsDone || t.PlannedDate == nil {
			continue
		}
		day := *t.PlannedDate
		if day < windowStart || day >= windowEnd {
			continue
		}
		loads.Add(day, t.Minutes())
	}

	return loads
}

func addBusyInterval(loads domain.DayLoadMap, b domain.BusyInterval, windowStart, windowEnd domain.Day, loc *time.Location) {
	if !b.Valid() {
		return
	}

	first := max(domain.DayOf(b.Start, loc), windowStart)
	last := min(domain.DayOf(b.End, loc), windowEnd-1)

	for day := first; day <= last; day++ {
		dayStart := day.Start(loc)
		dayEnd := day.AddDays(1).Start(loc)

		from := b.Start
		if dayStart.After(from) {
			from = dayStart
		}
		to := b.End
		if dayEnd.Before(to) {
			to = dayEnd
		}
		if to.After(from) {
			loads.Add(day, int(to.Sub(from)/time.Minute))
		}
	}
}
