package commands

import (
	"context"

	"github.com/Miiduoa/tired-sub002/internal/productivity/application/services"
	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	sharedApplication "github.com/Miiduoa/tired-sub002/internal/shared/application"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CompleteTaskCommand contains the data needed to complete a task.
type CompleteTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// CompleteTaskResult lists the tasks whose last open dependency was the
// completed one.
type CompleteTaskResult struct {
	Unlocked []TaskRef
}

// TaskRef names a related task.
type TaskRef struct {
	ID    uuid.UUID
	Title string
}

// CompleteTaskHandler handles the CompleteTaskCommand.
type CompleteTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCompleteTaskHandler creates a new CompleteTaskHandler.
func NewCompleteTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CompleteTaskHandler {
	return &CompleteTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the CompleteTaskCommand.
func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) (*CompleteTaskResult, error) {
	result := &CompleteTaskResult{}

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		tasks, err := h.taskRepo.FindByUserID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		t, err := findIn(tasks, cmd.TaskID)
		if err != nil {
			if _, ferr := loadOwned(txCtx, h.taskRepo, cmd.TaskID, cmd.UserID); ferr != nil {
				return ferr
			}
			return err
		}

		if err := t.Complete(); err != nil {
			return err
		}
		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}
		if err := outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(ctx, cmd.UserID), t); err != nil {
			return err
		}

		for _, u := range services.UnlockedBy(t.ID(), tasks) {
			result.Unlocked = append(result.Unlocked, TaskRef{ID: u.ID(), Title: u.Title()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
