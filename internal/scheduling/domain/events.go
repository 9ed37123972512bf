package domain

import (
	sharedDomain "github.com/Miiduoa/tired-sub002/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "PlanRun"

	RoutingKeyAutoPlanCompleted = "scheduling.autoplan_completed"
	RoutingKeyWeekOptimized     = "scheduling.week_optimized"
)

// AutoPlanCompleted is emitted after an auto-plan run has been saved.
type AutoPlanCompleted struct {
	sharedDomain.BaseEvent
	UserID         uuid.UUID   `json:"user_id"`
	WeekStart      Day         `json:"week_start"`
	ScheduledCount int         `json:"scheduled_count"`
	SkippedCount   int         `json:"skipped_count"`
	OverloadedDays []Day       `json:"overloaded_days"`
	Placements     []Placement `json:"placements"`
}

func NewAutoPlanCompleted(run *PlanRun, placements []Placement) *AutoPlanCompleted {
	return &AutoPlanCompleted{
		BaseEvent:      sharedDomain.NewBaseEvent(run.ID(), AggregateType, RoutingKeyAutoPlanCompleted),
		UserID:         run.userID,
		WeekStart:      run.weekStart,
		ScheduledCount: run.scheduledCount,
		SkippedCount:   run.skippedCount,
		OverloadedDays: run.overloadedDays,
		Placements:     placements,
	}
}

// WeekOptimized is emitted after the optimizer moved tasks between days.
type WeekOptimized struct {
	sharedDomain.BaseEvent
	UserID    uuid.UUID `json:"user_id"`
	WeekStart Day       `json:"week_start"`
	Moves     []Move    `json:"moves"`
}

func NewWeekOptimized(run *PlanRun, moves []Move) *WeekOptimized {
	return &WeekOptimized{
		BaseEvent: sharedDomain.NewBaseEvent(run.ID(), AggregateType, RoutingKeyWeekOptimized),
		UserID:    run.userID,
		WeekStart: run.weekStart,
		Moves:     moves,
	}
}
