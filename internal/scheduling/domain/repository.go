package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BusyBlockRepository persists manually entered busy blocks.
type BusyBlockRepository interface {
	Save(ctx context.Context, block *BusyBlock) error
	FindByID(ctx context.Context, id uuid.UUID) (*BusyBlock, error)
	// FindOverlapping returns blocks intersecting [start, end), ordered by start.
	FindOverlapping(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*BusyBlock, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PlanRunRepository persists the history of planning runs.
type PlanRunRepository interface {
	Save(ctx context.Context, run *PlanRun) error
	// ListRecent returns the newest runs first.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*PlanRun, error)
}
