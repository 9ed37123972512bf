package commands

import (
	"context"
	"slices"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	"github.com/google/uuid"
)

// memTaskRepo is an in-memory task.Repository.
type memTaskRepo struct {
	tasks   map[uuid.UUID]*task.Task
	order   []uuid.UUID
	saves   int
	saveErr error
}

func newMemTaskRepo(tasks ...*task.Task) *memTaskRepo {
	r := &memTaskRepo{tasks: make(map[uuid.UUID]*task.Task)}
	for _, t := range tasks {
		r.put(t)
	}
	return r
}

func (r *memTaskRepo) put(t *task.Task) {
	if _, ok := r.tasks[t.ID()]; !ok {
		r.order = append(r.order, t.ID())
	}
	r.tasks[t.ID()] = t
}

func (r *memTaskRepo) Save(_ context.Context, t *task.Task) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.put(t)
	return nil
}

func (r *memTaskRepo) FindByID(_ context.Context, id uuid.UUID) (*task.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, task.ErrTaskNotFound
	}
	return t, nil
}

func (r *memTaskRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*task.Task, error) {
	var out []*task.Task
	for _, id := range r.order {
		if t := r.tasks[id]; t != nil && t.UserID() == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTaskRepo) FindUsersWithOpenTasks(_ context.Context) ([]uuid.UUID, error) {
	var users []uuid.UUID
	for _, id := range r.order {
		t := r.tasks[id]
		if t != nil && !t.IsDone() && !slices.Contains(users, t.UserID()) {
			users = append(users, t.UserID())
		}
	}
	return users, nil
}

func (r *memTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.tasks[id]; !ok {
		return task.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

// fakeUoW counts transactions without opening any.
type fakeUoW struct {
	begun, committed, rolledBack int
}

func (u *fakeUoW) Begin(ctx context.Context) (context.Context, error) {
	u.begun++
	return ctx, nil
}

func (u *fakeUoW) Commit(context.Context) error {
	u.committed++
	return nil
}

func (u *fakeUoW) Rollback(context.Context) error {
	u.rolledBack++
	return nil
}
