package commands

import (
	"context"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
	"github.com/google/uuid"
)

// loadOwned finds a task and checks it belongs to userID.
func loadOwned(ctx context.Context, repo task.Repository, taskID, userID uuid.UUID) (*task.Task, error) {
	t, err := repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.UserID() != userID {
		return nil, task.ErrTaskNotOwned
	}
	return t, nil
}

// findIn returns the task with id from tasks, or ErrTaskNotFound.
func findIn(tasks []*task.Task, id uuid.UUID) (*task.Task, error) {
	for _, t := range tasks {
		if t.ID() == id {
			return t, nil
		}
	}
	return nil, task.ErrTaskNotFound
}

func applyDetails(t *task.Task, description, priority string, estimateMinutes int, deadline *time.Time) error {
	if description != "" {
		if err := t.SetDescription(description); err != nil {
			return err
		}
	}
	if priority != "" {
		p, err := value_objects.ParsePriority(priority)
		if err != nil {
			return err
		}
		if err := t.SetPriority(p); err != nil {
			return err
		}
	}
	if estimateMinutes > 0 {
		estimate, err := value_objects.NewDurationMinutes(estimateMinutes)
		if err != nil {
			return err
		}
		if err := t.SetEstimate(estimate); err != nil {
			return err
		}
	}
	if deadline != nil {
		if err := t.SetDeadline(deadline); err != nil {
			return err
		}
	}
	return nil
}
