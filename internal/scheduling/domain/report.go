package domain

import "github.com/google/uuid"

// SkipReason explains why a candidate stayed unscheduled.
type SkipReason string

const (
	SkipReasonDeadlineExpired      SkipReason = "deadline_expired"
	SkipReasonExceedsDailyCapacity SkipReason = "exceeds_daily_capacity"
	SkipReasonNoSuitableSlot       SkipReason = "no_suitable_slot"
)

// Message is the human readable form of the reason.
func (r SkipReason) Message() string {
	switch r {
	case SkipReasonDeadlineExpired:
		return "deadline expired"
	case SkipReasonExceedsDailyCapacity:
		return "exceeds daily capacity"
	default:
		return "no suitable slot found"
	}
}

// Placement records where the assigner put one task.
type Placement struct {
	TaskID   uuid.UUID `json:"task_id"`
	Day      Day       `json:"day"`
	Minutes  int       `json:"minutes"`
	Fallback bool      `json:"fallback"`
}

// SkippedTask pairs an unplaced candidate with the reason.
type SkippedTask struct {
	Task   PlanTask
	Reason SkipReason
}

// Report is the outcome of a planning run with diagnostics.
type Report struct {
	Tasks                 []PlanTask
	ScheduledTasks        []PlanTask
	Placements            []Placement
	SkippedTasks          []SkippedTask
	OverloadedDays        []Day
	WeekLoads             []DayLoad
	TotalScheduledMinutes int
	Suggestions           []string
}

// ScheduledCount is the number of tasks placed in this run.
func (r Report) ScheduledCount() int {
	return len(r.ScheduledTasks)
}

// Move records one task relocated by the optimizer.
type Move struct {
	TaskID  uuid.UUID `json:"task_id"`
	From    Day       `json:"from"`
	To      Day       `json:"to"`
	Minutes int       `json:"minutes"`
}

// OptimizeResult is the outcome of a rebalancing pass.
type OptimizeResult struct {
	Tasks []PlanTask
	Moves []Move
}
