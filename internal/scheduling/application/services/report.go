package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
)

// skipReason picks the first matching explanation for an unplaced candidate.
func skipReason(task domain.PlanTask, today domain.Day, dailyCapacity int, loc *time.Location) domain.SkipReason {
	if deadline, ok := task.DeadlineDay(loc); ok && deadline < today {
		return domain.SkipReasonDeadlineExpired
	}
	if task.Minutes() > dailyCapacity {
		return domain.SkipReasonExceedsDailyCapacity
	}
	return domain.SkipReasonNoSuitableSlot
}

// WeekLoad returns the load of the seven days starting at weekStart, flagged
// against the hard daily capacity.
func WeekLoad(tasks []domain.PlanTask, busy []domain.BusyInterval, opts domain.AutoPlanOptions) []domain.DayLoad {
	end := opts.WeekStart.AddDays(7)
	loads := SeedDayLoad(tasks, busy, opts.WeekStart, end, opts.Location)

	rows := make([]domain.DayLoad, 0, 7)
	for day := opts.WeekStart; day < end; day++ {
		minutes := loads.Load(day)
		rows = append(rows, domain.DayLoad{
			Day:        day,
			Minutes:    minutes,
			Capacity:   opts.DailyCapacityMinutes,
			Overloaded: minutes > opts.DailyCapacityMinutes,
		})
	}
	return rows
}

type suggestionInput struct {
	scheduled    int
	totalMinutes int
	overloaded   []domain.Day
	capacity     int
	skipped      []domain.SkippedTask
	highSkipped  int
	overdue      int
}

func buildSuggestions(in suggestionInput) []string {
	suggestions := make([]string, 0, 5)

	if in.scheduled > 0 {
		suggestions = append(suggestions, fmt.Sprintf(
			"Scheduled %s totaling %s.", plural(in.scheduled, "task"), FormatMinutes(in.totalMinutes)))
	}

	if len(in.overloaded) > 0 {
		labels := make([]string, len(in.overloaded))
		for i, d := range in.overloaded {
			labels[i] = fmt.Sprintf("%s %s", d.Weekday().String()[:3], d)
		}
		suggestions = append(suggestions, fmt.Sprintf(
			"%s over the daily capacity of %s (%s); consider optimizing the week.",
			pluralVerb(len(in.overloaded), "day", "is", "are"), FormatMinutes(in.capacity), strings.Join(labels, ", ")))
	}

	if len(in.skipped) > 0 {
		counts := map[domain.SkipReason]int{}
		for _, s := range in.skipped {
			counts[s.Reason]++
		}
		parts := make([]string, 0, 3)
		for _, reason := range []domain.SkipReason{
			domain.SkipReasonDeadlineExpired,
			domain.SkipReasonExceedsDailyCapacity,
			domain.SkipReasonNoSuitableSlot,
		} {
			if counts[reason] > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", counts[reason], reason.Message()))
			}
		}
		suggestions = append(suggestions, fmt.Sprintf(
			"%s could not be scheduled (%s).", plural(len(in.skipped), "task"), strings.Join(parts, ", ")))
	}

	if in.highSkipped > 0 {
		suggestions = append(suggestions, fmt.Sprintf(
			"%s still unscheduled; free up time or extend deadlines.", pluralVerb(in.highSkipped, "high-priority task", "is", "are")))
	}

	if in.overdue > 0 {
		suggestions = append(suggestions, fmt.Sprintf(
			"%s overdue; reschedule or complete %s first.", pluralVerb(in.overdue, "task", "is", "are"), pronoun(in.overdue)))
	}

	return suggestions
}

// FormatMinutes renders minutes as 2h30m, 2h or 45m.
func FormatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func pluralVerb(n int, noun, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%s %s", plural(n, noun), one)
	}
	return fmt.Sprintf("%s %s", plural(n, noun), many)
}

func pronoun(n int) string {
	if n == 1 {
		return "it"
	}
	return "them"
}
