package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
)

// Snapshot is what one planning run reads for a user.
type Snapshot struct {
	Now     time.Time
	Today   domain.Day
	Options domain.AutoPlanOptions
	Tasks   []*task.Task
	Busy    []domain.BusyInterval
}

// PlanTasks is the planner view of the snapshot's tasks.
func (s *Snapshot) PlanTasks() []domain.PlanTask {
	return ToPlanTasks(s.Tasks)
}

// Loader assembles snapshots. A nil busy source plans against an empty
// calendar.
type Loader struct {
	tasks   task.Repository
	busy    BusySource
	options OptionsFunc
	clock   domain.Clock
}

func NewLoader(tasks task.Repository, busy BusySource, options OptionsFunc, clock domain.Clock) *Loader {
	if options == nil {
		options = func(now time.Time) (domain.AutoPlanOptions, error) {
			return domain.NewAutoPlanOptions(now)
		}
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Loader{tasks: tasks, busy: busy, options: options, clock: clock}
}

// Load reads the user's tasks and, when withBusy is set, the busy time of
// the planning range.
func (l *Loader) Load(ctx context.Context, userID uuid.UUID, withBusy bool) (*Snapshot, error) {
	now := l.clock.Now()
	opts, err := l.options(now)
	if err != nil {
		return nil, err
	}
	tasks, err := l.tasks.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	snap := &Snapshot{
		Now:     now,
		Today:   opts.Today(now),
		Options: opts,
		Tasks:   tasks,
	}
	if withBusy {
		start, end := Range(opts, snap.Today)
		if snap.Busy, err = l.Busy(ctx, userID, start, end); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

// Busy reads the user's busy time overlapping [start, end).
func (l *Loader) Busy(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]domain.BusyInterval, error) {
	if l.busy == nil {
		return nil, nil
	}
	busy, err := l.busy.FetchBusy(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("load busy time: %w", err)
	}
	return busy, nil
}
