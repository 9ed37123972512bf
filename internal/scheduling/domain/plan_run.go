package domain

import (
	"time"

	sharedDomain "github.com/Miiduoa/tired-sub002/internal/shared/domain"
	"github.com/google/uuid"
)

// PlanRunKind says which entry point produced a run.
type PlanRunKind string

const (
	PlanRunAuto     PlanRunKind = "auto"
	PlanRunOptimize PlanRunKind = "optimize"
)

// PlanRun is the audit record of one planning invocation for a user.
type PlanRun struct {
	sharedDomain.BaseAggregateRoot
	userID         uuid.UUID
	kind           PlanRunKind
	ranAt          time.Time
	weekStart      Day
	scheduledCount int
	skippedCount   int
	movedCount     int
	overloadedDays []Day
	suggestions    []string
}

// NewAutoPlanRun records a completed auto-plan run and raises its event.
func NewAutoPlanRun(userID uuid.UUID, ranAt time.Time, report Report, weekStart Day) *PlanRun {
	run := &PlanRun{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		kind:              PlanRunAuto,
		ranAt:             ranAt.UTC(),
		weekStart:         weekStart,
		scheduledCount:    report.ScheduledCount(),
		skippedCount:      len(report.SkippedTasks),
		overloadedDays:    append([]Day(nil), report.OverloadedDays...),
		suggestions:       append([]string(nil), report.Suggestions...),
	}
	run.AddDomainEvent(NewAutoPlanCompleted(run, report.Placements))
	return run
}

// NewOptimizeRun records a rebalancing pass and raises its event.
func NewOptimizeRun(userID uuid.UUID, ranAt time.Time, result OptimizeResult, weekStart Day) *PlanRun {
	run := &PlanRun{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		kind:              PlanRunOptimize,
		ranAt:             ranAt.UTC(),
		weekStart:         weekStart,
		movedCount:        len(result.Moves),
	}
	run.AddDomainEvent(NewWeekOptimized(run, result.Moves))
	return run
}

// RehydratePlanRun rebuilds a run from storage.
func RehydratePlanRun(
	id, userID uuid.UUID,
	kind PlanRunKind,
	ranAt time.Time,
	weekStart Day,
	scheduled, skipped, moved int,
	overloaded []Day,
	suggestions []string,
) *PlanRun {
	return &PlanRun{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, ranAt, ranAt), 1),
		userID:         userID,
		kind:           kind,
		ranAt:          ranAt,
		weekStart:      weekStart,
		scheduledCount: scheduled,
		skippedCount:   skipped,
		movedCount:     moved,
		overloadedDays: overloaded,
		suggestions:    suggestions,
	}
}

func (r *PlanRun) UserID() uuid.UUID     { return r.userID }
func (r *PlanRun) Kind() PlanRunKind     { return r.kind }
func (r *PlanRun) RanAt() time.Time      { return r.ranAt }
func (r *PlanRun) WeekStart() Day        { return r.weekStart }
func (r *PlanRun) ScheduledCount() int   { return r.scheduledCount }
func (r *PlanRun) SkippedCount() int     { return r.skippedCount }
func (r *PlanRun) MovedCount() int       { return r.movedCount }
func (r *PlanRun) OverloadedDays() []Day { return r.overloadedDays }
func (r *PlanRun) Suggestions() []string { return r.suggestions }
