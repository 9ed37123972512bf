package services

import "github.com/Miiduoa/tired-sub002/internal/scheduling/domain"

// BuildWindow lists the days from today through today+horizonDays that may
// receive tasks, in ascending order. A day qualifies when its weekday is a
// workday, or when it falls on a weekend and weekends are allowed.
func BuildWindow(today domain.Day, horizonDays int, workdays domain.WorkdaySet, allowWeekends bool) []domain.Day {
	if horizonDays < 0 {
		horizonDays = 0
	}
	days := make([]domain.Day, 0, horizonDays+1)
	for offset := 0; offset <= horizonDays; offset++ {
		day := today.AddDays(offset)
		if workdays.Contains(day.Weekday()) || (allowWeekends && day.IsWeekend()) {
			days = append(days, day)
		}
	}
	return days
}
