package commands

import (
	"context"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/application/services"
	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	sharedApplication "github.com/Miiduoa/tired-sub002/internal/shared/application"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	UserID          uuid.UUID
	Title           string
	Description     string
	Priority        string
	EstimateMinutes int
	DeadlineAt      *time.Time
	PlannedDate     *time.Time
	LockDate        bool
	DependsOn       []uuid.UUID
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID uuid.UUID
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateTaskHandler {
	return &CreateTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	var result *CreateTaskResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := task.NewTask(cmd.UserID, cmd.Title)
		if err != nil {
			return err
		}
		if err := applyDetails(t, cmd.Description, cmd.Priority, cmd.EstimateMinutes, cmd.DeadlineAt); err != nil {
			return err
		}
		if cmd.PlannedDate != nil {
			if err := t.PlanFor(*cmd.PlannedDate, cmd.LockDate); err != nil {
				return err
			}
		}

		if len(cmd.DependsOn) > 0 {
			existing, err := h.taskRepo.FindByUserID(txCtx, cmd.UserID)
			if err != nil {
				return err
			}
			existing = append(existing, t)
			for _, dep := range cmd.DependsOn {
				if err := services.ValidateDependency(existing, t.ID(), dep); err != nil {
					return err
				}
				if err := t.AddDependency(dep); err != nil {
					return err
				}
			}
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}
		if err := outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(ctx, cmd.UserID), t); err != nil {
			return err
		}

		result = &CreateTaskResult{TaskID: t.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
