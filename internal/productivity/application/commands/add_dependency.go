package commands

import (
	"context"

	"github.com/Miiduoa/tired-sub002/internal/productivity/application/services"
	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	sharedApplication "github.com/Miiduoa/tired-sub002/internal/shared/application"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// AddDependencyCommand makes TaskID wait for DependsOnID.
type AddDependencyCommand struct {
	UserID      uuid.UUID
	TaskID      uuid.UUID
	DependsOnID uuid.UUID
}

// RemoveDependencyCommand drops a dependency edge.
type RemoveDependencyCommand struct {
	UserID      uuid.UUID
	TaskID      uuid.UUID
	DependsOnID uuid.UUID
}

// DependencyHandler handles dependency edits.
type DependencyHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewDependencyHandler creates a new DependencyHandler.
func NewDependencyHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DependencyHandler {
	return &DependencyHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Add validates and records the dependency. Missing tasks, self references
// and cycles are rejected.
func (h *DependencyHandler) Add(ctx context.Context, cmd AddDependencyCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		tasks, err := h.taskRepo.FindByUserID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		t, err := findIn(tasks, cmd.TaskID)
		if err != nil {
			return err
		}
		if err := services.ValidateDependency(tasks, cmd.TaskID, cmd.DependsOnID); err != nil {
			return err
		}
		if err := t.AddDependency(cmd.DependsOnID); err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}
		return outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(ctx, cmd.UserID), t)
	})
}

// Remove drops the dependency if present.
func (h *DependencyHandler) Remove(ctx context.Context, cmd RemoveDependencyCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := loadOwned(txCtx, h.taskRepo, cmd.TaskID, cmd.UserID)
		if err != nil {
			return err
		}
		t.RemoveDependency(cmd.DependsOnID)
		return h.taskRepo.Save(txCtx, t)
	})
}
