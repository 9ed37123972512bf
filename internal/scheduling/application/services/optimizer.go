package services

import (
	"slices"
	"sort"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
)

// Optimize moves tasks off days whose load exceeds the daily capacity.
//
// Only planned, unfinished, unlocked tasks on today or later are moved, but
// locked tasks still count toward their day's load. Overloaded days are
// handled from the heaviest down, and within a day the lowest priority tasks
// leave first. A task is moved to the least loaded window day that is below
// half of capacity, on or before its deadline, and stays within capacity
// after the move. A task due on or before its current day never moves.
// Moving stops as soon as the source day is back within capacity.
func Optimize(tasks []domain.PlanTask, opts domain.AutoPlanOptions, today domain.Day) domain.OptimizeResult {
	return OptimizeWithBusy(tasks, nil, opts, today)
}

// OptimizeWithBusy is Optimize with busy time counted toward each day's
// load. Busy time never moves, but it can make a day overloaded and it keeps
// a day full of appointments from looking underloaded.
func OptimizeWithBusy(tasks []domain.PlanTask, busy []domain.BusyInterval, opts domain.AutoPlanOptions, today domain.Day) domain.OptimizeResult {
	out := domain.CloneTasks(tasks)
	capacity := opts.DailyCapacityMinutes

	loads := make(domain.DayLoadMap)
	for _, b := range busy {
		addBusyInterval(loads, b, today, today.AddDays(opts.HorizonDays+1), opts.Location)
	}
	movable := make(map[domain.Day][]int)
	for i, t := range out {
		if t.IsDone || t.PlannedDate == nil || *t.PlannedDate < today {
			continue
		}
		day := *t.PlannedDate
		loads.Add(day, t.Minutes())
		if !t.IsDateLocked {
			movable[day] = append(movable[day], i)
		}
	}

	overloaded := make([]domain.Day, 0)
	for _, day := range loads.Days() {
		if loads.Load(day) > capacity {
			overloaded = append(overloaded, day)
		}
	}
	sort.SliceStable(overloaded, func(a, b int) bool {
		return loads.Load(overloaded[a]) > loads.Load(overloaded[b])
	})

	window := BuildWindow(today, opts.HorizonDays, opts.Workdays, opts.AllowWeekends)
	moves := make([]domain.Move, 0)

	for _, source := range overloaded {
		queue := slices.Clone(movable[source])
		sort.SliceStable(queue, func(a, b int) bool {
			return out[queue[a]].Priority.Rank() < out[queue[b]].Priority.Rank()
		})

		for _, i := range queue {
			if loads.Load(source) <= capacity {
				break
			}
			task := out[i]
			deadline, hasDeadline := task.DeadlineDay(opts.Location)
			if hasDeadline && deadline <= source {
				continue
			}

			minutes := task.Minutes()
			dest, ok := rebalanceTarget(window, loads, source, minutes, capacity, deadline, hasDeadline)
			if !ok {
				continue
			}

			loads.Add(source, -minutes)
			loads.Add(dest, minutes)
			out[i].PlannedDate = dest.Ptr()
			moves = append(moves, domain.Move{TaskID: task.ID, From: source, To: dest, Minutes: minutes})
		}
	}

	return domain.OptimizeResult{Tasks: out, Moves: moves}
}

func rebalanceTarget(
	window []domain.Day,
	loads domain.DayLoadMap,
	source domain.Day,
	minutes, capacity int,
	deadline domain.Day,
	hasDeadline bool,
) (domain.Day, bool) {
	var (
		best     domain.Day
		bestLoad int
		found    bool
	)
	half := float64(capacity) / 2

	for _, day := range window {
		if day == source || (hasDeadline && day > deadline) {
			continue
		}
		load := loads.Load(day)
		if float64(load) >= half || load+minutes > capacity {
			continue
		}
		if !found || load < bestLoad {
			best, bestLoad, found = day, load, true
		}
	}

	return best, found
}
