package commands

import (
	"context"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	sharedApplication "github.com/Miiduoa/tired-sub002/internal/shared/application"
	"github.com/google/uuid"
)

// AddBusyBlockCommand contains the data needed to record a busy interval.
type AddBusyBlockCommand struct {
	UserID uuid.UUID
	Title  string
	Start  time.Time
	End    time.Time
}

// AddBusyBlockResult contains the result of adding a busy block.
type AddBusyBlockResult struct {
	BlockID uuid.UUID
}

// RemoveBusyBlockCommand contains the data needed to remove a busy block.
type RemoveBusyBlockCommand struct {
	UserID  uuid.UUID
	BlockID uuid.UUID
}

// BusyBlockHandler manages manually entered busy blocks.
type BusyBlockHandler struct {
	repo domain.BusyBlockRepository
	uow  sharedApplication.UnitOfWork
}

// NewBusyBlockHandler creates a new BusyBlockHandler.
func NewBusyBlockHandler(repo domain.BusyBlockRepository, uow sharedApplication.UnitOfWork) *BusyBlockHandler {
	return &BusyBlockHandler{repo: repo, uow: uow}
}

// Add executes the AddBusyBlockCommand.
func (h *BusyBlockHandler) Add(ctx context.Context, cmd AddBusyBlockCommand) (*AddBusyBlockResult, error) {
	block, err := domain.NewBusyBlock(cmd.UserID, cmd.Title, cmd.Start, cmd.End)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.repo.Save(txCtx, block)
	})
	if err != nil {
		return nil, err
	}
	return &AddBusyBlockResult{BlockID: block.ID()}, nil
}

// Remove executes the RemoveBusyBlockCommand. Blocks of other users are
// reported as missing.
func (h *BusyBlockHandler) Remove(ctx context.Context, cmd RemoveBusyBlockCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		block, err := h.repo.FindByID(txCtx, cmd.BlockID)
		if err != nil {
			return err
		}
		if block.UserID() != cmd.UserID {
			return domain.ErrBusyBlockNotFound
		}
		return h.repo.Delete(txCtx, cmd.BlockID)
	})
}
