package queries

import (
	"context"

	"github.com/Miiduoa/tired-sub002/internal/productivity/application/services"
	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	"github.com/google/uuid"
)

// GetTaskQuery fetches one task of a user.
type GetTaskQuery struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// GetTaskHandler handles the GetTaskQuery.
type GetTaskHandler struct {
	taskRepo task.Repository
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(taskRepo task.Repository) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo}
}

// Handle returns the task, or ErrTaskNotFound when it belongs to someone else.
// Blockers holds the unfinished tasks it waits on, directly or through other
// tasks; Dependents holds every task that waits on it.
func (h *GetTaskHandler) Handle(ctx context.Context, query GetTaskQuery) (*TaskDTO, error) {
	all, err := h.taskRepo.FindByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	for _, t := range all {
		if t.ID() != query.TaskID {
			continue
		}
		dto := toDTO(t, all)

		var blockers []*task.Task
		for _, dep := range services.DependencyChain(t.ID(), all)[1:] {
			if !dep.IsDone() {
				blockers = append(blockers, dep)
			}
		}
		dto.Blockers = toRefs(blockers)
		dto.Dependents = toRefs(services.Dependents(t.ID(), all))
		return &dto, nil
	}
	return nil, task.ErrTaskNotFound
}
