// Package nightly re-plans every user with open tasks once a day.
package nightly

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/commands"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
)

const (
	// DefaultConcurrency bounds how many users are planned at once.
	DefaultConcurrency = 4

	// DefaultShutdownGrace is how long plans already underway may run on
	// after the job's context is canceled.
	DefaultShutdownGrace = 30 * time.Second
)

// UserLister finds the users that have something to plan.
type UserLister interface {
	FindUsersWithOpenTasks(ctx context.Context) ([]uuid.UUID, error)
}

// AutoPlanner runs one auto-plan.
type AutoPlanner interface {
	Handle(ctx context.Context, cmd commands.AutoPlanCommand) (*commands.AutoPlanResult, error)
}

// Result counts the outcome of one nightly pass.
type Result struct {
	Users     int
	Planned   int
	Scheduled int
	Busy      int
	Failed    int

	// Canceled counts users left for the next pass because the job stopped.
	Canceled int
}

// Job plans every user at a fixed hour of the day.
type Job struct {
	users       UserLister
	planner     AutoPlanner
	hour        int
	loc         *time.Location
	concurrency int
	grace       time.Duration
	clock       domain.Clock
	logger      *slog.Logger
}

// Option configures a Job.
type Option func(*Job)

// WithConcurrency sets how many users are planned in parallel.
func WithConcurrency(n int) Option {
	return func(j *Job) {
		if n > 0 {
			j.concurrency = n
		}
	}
}

// WithShutdownGrace sets how long running plans may finish after cancel.
func WithShutdownGrace(d time.Duration) Option {
	return func(j *Job) { j.grace = d }
}

// WithClock replaces the system clock.
func WithClock(c domain.Clock) Option {
	return func(j *Job) { j.clock = c }
}

// NewJob creates a job that runs at hour:00 in loc.
func NewJob(users UserLister, planner AutoPlanner, hour int, loc *time.Location, logger *slog.Logger, opts ...Option) *Job {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	j := &Job{
		users:       users,
		planner:     planner,
		hour:        hour,
		loc:         loc,
		concurrency: DefaultConcurrency,
		grace:       DefaultShutdownGrace,
		clock:       domain.SystemClock{},
		logger:      logger.With("component", "nightly_plan"),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// NextRun is the first hour:00 strictly after now.
func (j *Job) NextRun(now time.Time) time.Time {
	local := now.In(j.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), j.hour, 0, 0, 0, j.loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, j.hour, 0, 0, 0, j.loc)
	}
	return next
}

// Start runs the job every day until ctx is canceled.
func (j *Job) Start(ctx context.Context) {
	for {
		next := j.NextRun(j.clock.Now())
		j.logger.Info("next nightly plan scheduled", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.Error("nightly plan failed", "error", err)
		}
	}
}

// RunOnce plans every user with open tasks. A failure for one user is
// logged and counted; it does not stop the others. A user whose plan lock
// is held is skipped.
//
// Once ctx is canceled no new user is started. Plans already underway keep
// running for up to the shutdown grace so their unit of work can commit.
func (j *Job) RunOnce(ctx context.Context) (Result, error) {
	users, err := j.users.FindUsersWithOpenTasks(ctx)
	if err != nil {
		return Result{}, err
	}

	runCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	defer stop()
	stopAfterGrace := context.AfterFunc(ctx, func() { time.AfterFunc(j.grace, stop) })
	defer stopAfterGrace()

	var planned, scheduled, busy, failed, canceled atomic.Int64
	p := pool.New().WithMaxGoroutines(j.concurrency)
	for _, userID := range users {
		p.Go(func() {
			if ctx.Err() != nil {
				canceled.Add(1)
				return
			}
			result, err := j.planner.Handle(runCtx, commands.AutoPlanCommand{UserID: userID})
			switch {
			case errors.Is(err, commands.ErrPlanInProgress):
				busy.Add(1)
				j.logger.Info("plan already running, skipped", "user_id", userID)
			case err != nil:
				failed.Add(1)
				j.logger.Error("auto-plan failed", "user_id", userID, "error", err)
			default:
				planned.Add(1)
				scheduled.Add(int64(result.Report.ScheduledCount()))
			}
		})
	}
	p.Wait()

	result := Result{
		Users:     len(users),
		Planned:   int(planned.Load()),
		Scheduled: int(scheduled.Load()),
		Busy:      int(busy.Load()),
		Failed:    int(failed.Load()),
		Canceled:  int(canceled.Load()),
	}
	if result.Canceled > 0 {
		j.logger.Warn("nightly plan interrupted", "users_left", result.Canceled)
	}
	j.logger.Info("nightly plan finished",
		"users", result.Users,
		"planned", result.Planned,
		"scheduled", result.Scheduled,
		"skipped_locked", result.Busy,
		"failed", result.Failed,
	)
	return result, ctx.Err()
}
