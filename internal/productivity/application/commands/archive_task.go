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

// ArchiveTaskCommand drops a task the user no longer intends to do.
type ArchiveTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// ArchiveTaskResult describes what archiving released. FreedDate is the day
// an open task was planned on; it is nil for completed or unplanned tasks.
// Dependents lists the unfinished tasks that waited on the archived one,
// directly or through other tasks; Unlocked is the subset that can start now.
type ArchiveTaskResult struct {
	FreedDate  *time.Time
	Dependents []TaskRef
	Unlocked   []TaskRef
}

type ArchiveTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewArchiveTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ArchiveTaskHandler {
	return &ArchiveTaskHandler{taskRepo: taskRepo, outboxRepo: outboxRepo, uow: uow}
}

// Handle archives the task. An open task gives up its planned day so the
// next planning run can reuse the capacity, and dependents waiting only on
// it become startable.
func (h *ArchiveTaskHandler) Handle(ctx context.Context, cmd ArchiveTaskCommand) (*ArchiveTaskResult, error) {
	result := &ArchiveTaskResult{}

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
		if t.IsArchived() {
			return nil
		}

		if !t.IsCompleted() && t.PlannedDate() != nil {
			freed := *t.PlannedDate()
			result.FreedDate = &freed
			t.Unplan()
		}
		wasOpen := !t.IsDone()
		if err := t.Archive(); err != nil {
			return err
		}
		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}
		if err := outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(ctx, cmd.UserID), t); err != nil {
			return err
		}

		for _, d := range services.Dependents(t.ID(), tasks) {
			if !d.IsDone() {
				result.Dependents = append(result.Dependents, TaskRef{ID: d.ID(), Title: d.Title()})
			}
		}
		if wasOpen {
			for _, u := range services.UnlockedBy(t.ID(), tasks) {
				result.Unlocked = append(result.Unlocked, TaskRef{ID: u.ID(), Title: u.Title()})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
