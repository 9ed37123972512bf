package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/planning"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/services"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	sharedApplication "github.com/Miiduoa/tired-sub002/internal/shared/application"
	sharedDomain "github.com/Miiduoa/tired-sub002/internal/shared/domain"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/lock"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ErrPlanInProgress means another planning run holds the user's lock.
var ErrPlanInProgress = errors.New("a planning run is already in progress for this user")

const planLockTTL = 2 * time.Minute

// PlanDeps are the collaborators of the planning commands.
type PlanDeps struct {
	Tasks   task.Repository
	Runs    domain.PlanRunRepository
	Outbox  outbox.Repository
	UoW     sharedApplication.UnitOfWork
	Loader  *planning.Loader
	Planner *services.AutoPlanner
	Locker  lock.Locker
	Logger  *slog.Logger
}

func (d PlanDeps) withDefaults() PlanDeps {
	if d.Planner == nil {
		d.Planner = services.NewAutoPlanner(nil, nil, d.Logger)
	}
	if d.Locker == nil {
		d.Locker = lock.NewLocalLocker()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}

// acquire takes the user's plan lock.
func (d PlanDeps) acquire(ctx context.Context, userID uuid.UUID) (lock.Release, error) {
	release, err := d.Locker.Acquire(ctx, lock.PlanKey(userID.String()), planLockTTL)
	if errors.Is(err, lock.ErrLocked) {
		return nil, ErrPlanInProgress
	}
	return release, err
}

func (d PlanDeps) release(ctx context.Context, release lock.Release, userID uuid.UUID) {
	if err := release(context.WithoutCancel(ctx)); err != nil {
		d.Logger.Warn("failed to release plan lock", "user_id", userID, "error", err)
	}
}

// persist saves the changed tasks and the run, and queues their events, in
// one transaction.
func (d PlanDeps) persist(ctx context.Context, userID uuid.UUID, changed []*task.Task, run *domain.PlanRun) error {
	return sharedApplication.WithUnitOfWork(ctx, d.UoW, func(txCtx context.Context) error {
		aggregates := make([]sharedDomain.AggregateRoot, 0, len(changed)+1)
		for _, t := range changed {
			if err := d.Tasks.Save(txCtx, t); err != nil {
				return err
			}
			aggregates = append(aggregates, t)
		}
		if err := d.Runs.Save(txCtx, run); err != nil {
			return err
		}
		aggregates = append(aggregates, run)
		return outbox.Record(txCtx, d.Outbox, sharedApplication.NewEventMetadata(ctx, userID), aggregates...)
	})
}
