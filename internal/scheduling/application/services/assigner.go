package services

import (
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
)

const (
	lastSafeDayBonus  = 1000
	nearDeadlineBonus = 500
	earlyDayPenalty   = 10
)

// AssignResult holds the candidates after placement, in the order they were assigned.
type AssignResult struct {
	Tasks          []domain.PlanTask
	Placements     []domain.Placement
	ScheduledCount int
}

// Assign places each candidate on one day of window, in the order given.
//
// The primary search never passes a deadline and never lets a day exceed
// domain.SoftCeiling(dailyCapacity). Among the remaining days the lowest
// score wins, ties going to the earlier day. When no day qualifies the task falls
// back to the least loaded day on or before its deadline that is still under
// dailyCapacity. A task with nowhere to go keeps a nil PlannedDate.
//
// loads is updated in place as tasks are committed. Callers pass a map built
// for this run only.
func Assign(
	ordered []domain.PlanTask,
	loads domain.DayLoadMap,
	window []domain.Day,
	today domain.Day,
	dailyCapacity int,
	weights domain.PriorityWeights,
	loc *time.Location,
) AssignResult {
	result := AssignResult{
		Tasks:      make([]domain.PlanTask, 0, len(ordered)),
		Placements: make([]domain.Placement, 0, len(ordered)),
	}
	ceiling := domain.SoftCeiling(dailyCapacity)

	for _, candidate := range ordered {
		task := candidate.Clone()
		if !task.IsCandidate() {
			result.Tasks = append(result.Tasks, task)
			continue
		}

		minutes := task.Minutes()
		deadline, hasDeadline := task.DeadlineDay(loc)
		pullEarly := weights.Weight(task.Priority) >= domain.HighPriorityWeight

		day, found := bestScoredDay(window, loads, today, minutes, ceiling, deadline, hasDeadline, pullEarly)
		fallback := false
		if !found {
			day, found = leastLoadedDay(window, loads, dailyCapacity, deadline, hasDeadline)
			fallback = found
		}

		if found {
			loads.Add(day, minutes)
			task.PlannedDate = day.Ptr()
			task.IsDateLocked = false
			result.ScheduledCount++
			result.Placements = append(result.Placements, domain.Placement{
				TaskID:   task.ID,
				Day:      day,
				Minutes:  minutes,
				Fallback: fallback,
			})
		}
		result.Tasks = append(result.Tasks, task)
	}

	return result
}

func bestScoredDay(
	window []domain.Day,
	loads domain.DayLoadMap,
	today domain.Day,
	minutes int,
	ceiling float64,
	deadline domain.Day,
	hasDeadline bool,
	pullEarly bool,
) (domain.Day, bool) {
	var (
		best      domain.Day
		bestScore int
		found     bool
	)

	for _, day := range window {
		if hasDeadline && day > deadline {
			continue
		}
		load := loads.Load(day)
		if float64(load+minutes) > ceiling {
			continue
		}

		score := load
		if hasDeadline {
			switch untilDeadline := int(deadline - day); {
			case untilDeadline <= 1:
				score -= lastSafeDayBonus
			case untilDeadline <= 3:
				score -= nearDeadlineBonus
			}
		}
		if pullEarly {
			score += int(day-today) * earlyDayPenalty
		}

		if !found || score < bestScore {
			best, bestScore, found = day, score, true
		}
	}

	return best, found
}

func leastLoadedDay(
	window []domain.Day,
	loads domain.DayLoadMap,
	dailyCapacity int,
	deadline domain.Day,
	hasDeadline bool,
) (domain.Day, bool) {
	var (
		best     domain.Day
		bestLoad int
		found    bool
	)

	for _, day := range window {
		if hasDeadline && day > deadline {
			continue
		}
		load := loads.Load(day)
		if load >= dailyCapacity {
			continue
		}
		if !found || load < bestLoad {
			best, bestLoad, found = day, load, true
		}
	}

	return best, found
}
