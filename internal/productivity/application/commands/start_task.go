package commands

import (
	"context"
	"errors"

	"github.com/Miiduoa/tired-sub002/internal/productivity/application/services"
	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	sharedApplication "github.com/Miiduoa/tired-sub002/internal/shared/application"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ErrTaskBlocked is returned when a task still has open dependencies.
var ErrTaskBlocked = errors.New("task has unfinished dependencies")

// StartTaskCommand moves a task to in progress.
type StartTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// StartTaskHandler handles the StartTaskCommand.
type StartTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewStartTaskHandler creates a new StartTaskHandler.
func NewStartTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *StartTaskHandler {
	return &StartTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the StartTaskCommand.
func (h *StartTaskHandler) Handle(ctx context.Context, cmd StartTaskCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		tasks, err := h.taskRepo.FindByUserID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		t, err := findIn(tasks, cmd.TaskID)
		if err != nil {
			return err
		}
		if !services.CanStart(t, tasks) {
			return ErrTaskBlocked
		}
		if err := t.Start(); err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}
		return outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(ctx, cmd.UserID), t)
	})
}
