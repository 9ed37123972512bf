package commands

import (
	"context"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memTaskRepo is an in-memory task.Repository.
type memTaskRepo struct {
	tasks []*task.Task
	saved []uuid.UUID
}

func (r *memTaskRepo) Save(_ context.Context, t *task.Task) error {
	r.saved = append(r.saved, t.ID())
	return nil
}

func (r *memTaskRepo) FindByID(_ context.Context, id uuid.UUID) (*task.Task, error) {
	for _, t := range r.tasks {
		if t.ID() == id {
			return t, nil
		}
	}
	return nil, task.ErrTaskNotFound
}

func (r *memTaskRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*task.Task, error) {
	var out []*task.Task
	for _, t := range r.tasks {
		if t.UserID() == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTaskRepo) FindUsersWithOpenTasks(context.Context) ([]uuid.UUID, error) {
	return nil, nil
}

func (r *memTaskRepo) Delete(context.Context, uuid.UUID) error {
	return nil
}

// memRunRepo is an in-memory domain.PlanRunRepository.
type memRunRepo struct {
	runs    []*domain.PlanRun
	saveErr error
}

func (r *memRunRepo) Save(_ context.Context, run *domain.PlanRun) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.runs = append(r.runs, run)
	return nil
}

func (r *memRunRepo) ListRecent(context.Context, uuid.UUID, int) ([]*domain.PlanRun, error) {
	return r.runs, nil
}

// mockBusyBlockRepo is a mock implementation of domain.BusyBlockRepository.
type mockBusyBlockRepo struct {
	mock.Mock
}

func (m *mockBusyBlockRepo) Save(ctx context.Context, block *domain.BusyBlock) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

func (m *mockBusyBlockRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.BusyBlock, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusyBlock), args.Error(1)
}

func (m *mockBusyBlockRepo) FindOverlapping(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.BusyBlock, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BusyBlock), args.Error(1)
}

func (m *mockBusyBlockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeUoW counts transactions without opening any.
type fakeUoW struct {
	committed, rolledBack int
}

func (u *fakeUoW) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }

func (u *fakeUoW) Commit(context.Context) error {
	u.committed++
	return nil
}

func (u *fakeUoW) Rollback(context.Context) error {
	u.rolledBack++
	return nil
}

// busyFunc adapts a function to planning.BusySource.
type busyFunc func(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]domain.BusyInterval, error)

func (f busyFunc) FetchBusy(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]domain.BusyInterval, error) {
	return f(ctx, userID, start, end)
}
