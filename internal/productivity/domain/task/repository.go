package task

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines task persistence.
type Repository interface {
	Save(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Task, error)
	// FindUsersWithOpenTasks lists users owning at least one task that is not done.
	FindUsersWithOpenTasks(ctx context.Context) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
