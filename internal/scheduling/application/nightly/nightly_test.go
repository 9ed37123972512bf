package nightly

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/commands"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type usersFunc func(ctx context.Context) ([]uuid.UUID, error)

func (f usersFunc) FindUsersWithOpenTasks(ctx context.Context) ([]uuid.UUID, error) { return f(ctx) }

type fakePlanner struct {
	mu    sync.Mutex
	calls []uuid.UUID
	errs  map[uuid.UUID]error
}

func (p *fakePlanner) Handle(_ context.Context, cmd commands.AutoPlanCommand) (*commands.AutoPlanResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, cmd.UserID)
	if err := p.errs[cmd.UserID]; err != nil {
		return nil, err
	}
	return &commands.AutoPlanResult{
		Report: domain.Report{ScheduledTasks: []domain.PlanTask{{ID: uuid.New()}, {ID: uuid.New()}}},
	}, nil
}

func TestJob_RunOnce(t *testing.T) {
	ok1, ok2, locked, broken := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	users := usersFunc(func(context.Context) ([]uuid.UUID, error) {
		return []uuid.UUID{ok1, ok2, locked, broken}, nil
	})
	planner := &fakePlanner{errs: map[uuid.UUID]error{
		locked: commands.ErrPlanInProgress,
		broken: errors.New("database is gone"),
	}}

	job := NewJob(users, planner, 2, time.UTC, nil, WithConcurrency(2))
	result, err := job.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Result{Users: 4, Planned: 2, Scheduled: 4, Busy: 1, Failed: 1}, result)
	assert.ElementsMatch(t, []uuid.UUID{ok1, ok2, locked, broken}, planner.calls)
}

func TestJob_RunOnce_ListFails(t *testing.T) {
	boom := errors.New("boom")
	users := usersFunc(func(context.Context) ([]uuid.UUID, error) { return nil, boom })

	_, err := NewJob(users, &fakePlanner{}, 2, time.UTC, nil).RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestJob_NextRun(t *testing.T) {
	taipei := time.FixedZone("UTC+8", 8*3600)
	job := NewJob(nil, nil, 2, taipei, nil)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"later today", time.Date(2026, 10, 21, 1, 30, 0, 0, taipei), time.Date(2026, 10, 21, 2, 0, 0, 0, taipei)},
		{"exactly at the hour", time.Date(2026, 10, 21, 2, 0, 0, 0, taipei), time.Date(2026, 10, 22, 2, 0, 0, 0, taipei)},
		{"tomorrow", time.Date(2026, 10, 21, 18, 0, 0, 0, taipei), time.Date(2026, 10, 22, 2, 0, 0, 0, taipei)},
		{"other zone input", time.Date(2026, 10, 21, 17, 0, 0, 0, time.UTC), time.Date(2026, 10, 22, 2, 0, 0, 0, taipei)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(job.NextRun(tt.now)), "got %s", job.NextRun(tt.now))
		})
	}
}

func TestJob_StartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	job := NewJob(nil, nil, 2, time.UTC, nil)

	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

type blockingPlanner struct {
	started chan struct{}
	release chan struct{}
	ctxErr  error
}

func (p *blockingPlanner) Handle(ctx context.Context, _ commands.AutoPlanCommand) (*commands.AutoPlanResult, error) {
	p.started <- struct{}{}
	<-p.release
	p.ctxErr = ctx.Err()
	return &commands.AutoPlanResult{}, nil
}

func TestJob_RunOnce_FinishesRunningPlanOnCancel(t *testing.T) {
	users := usersFunc(func(context.Context) ([]uuid.UUID, error) {
		return []uuid.UUID{uuid.New(), uuid.New()}, nil
	})
	planner := &blockingPlanner{started: make(chan struct{}, 2), release: make(chan struct{})}
	job := NewJob(users, planner, 2, time.UTC, nil, WithConcurrency(1))

	ctx, cancel := context.WithCancel(context.Background())
	type outcome struct {
		result Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := job.RunOnce(ctx)
		done <- outcome{result, err}
	}()

	<-planner.started
	cancel()
	close(planner.release)

	select {
	case got := <-done:
		assert.ErrorIs(t, got.err, context.Canceled)
		assert.Equal(t, Result{Users: 2, Planned: 1, Canceled: 1}, got.result)
		assert.NoError(t, planner.ctxErr)
	case <-time.After(2 * time.Second):
		t.Fatal("RunOnce did not return")
	}
}
