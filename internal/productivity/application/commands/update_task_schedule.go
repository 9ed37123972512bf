package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	sharedApplication "github.com/Miiduoa/tired-sub002/internal/shared/application"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ScheduleAction is a manual change to a task's planned date.
type ScheduleAction string

const (
	SchedulePlan   ScheduleAction = "plan"
	ScheduleUnplan ScheduleAction = "unplan"
	ScheduleLock   ScheduleAction = "lock"
	ScheduleUnlock ScheduleAction = "unlock"
)

var (
	ErrUnknownScheduleAction = errors.New("unknown schedule action")
	ErrPlanDateRequired      = errors.New("plan requires a date")
)

// UpdateTaskScheduleCommand plans, unplans, locks or unlocks one task.
type UpdateTaskScheduleCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
	Action ScheduleAction
	// Date and Lock are read by SchedulePlan only.
	Date *time.Time
	Lock bool
}

// UpdateTaskScheduleHandler handles the UpdateTaskScheduleCommand.
type UpdateTaskScheduleHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewUpdateTaskScheduleHandler creates a new UpdateTaskScheduleHandler.
func NewUpdateTaskScheduleHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateTaskScheduleHandler {
	return &UpdateTaskScheduleHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the UpdateTaskScheduleCommand.
func (h *UpdateTaskScheduleHandler) Handle(ctx context.Context, cmd UpdateTaskScheduleCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := loadOwned(txCtx, h.taskRepo, cmd.TaskID, cmd.UserID)
		if err != nil {
			return err
		}

		switch cmd.Action {
		case SchedulePlan:
			if cmd.Date == nil {
				return ErrPlanDateRequired
			}
			err = t.PlanFor(*cmd.Date, cmd.Lock)
		case ScheduleUnplan:
			t.Unplan()
		case ScheduleLock:
			err = t.LockDate()
		case ScheduleUnlock:
			t.UnlockDate()
		default:
			return fmt.Errorf("%w: %q", ErrUnknownScheduleAction, cmd.Action)
		}
		if err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}
		return outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(ctx, cmd.UserID), t)
	})
}
