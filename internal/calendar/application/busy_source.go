// Package application combines external calendars into one busy time
// provider for planning.
package application

import (
	"context"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
)

// BusySource returns the busy intervals of a user overlapping [start, end).
type BusySource interface {
	FetchBusy(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]domain.BusyInterval, error)
}

// NamedSource is a BusySource with a stable name for logs and metrics.
type NamedSource interface {
	BusySource
	Name() string
}

// BusySourceFunc adapts a function to BusySource.
type BusySourceFunc func(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]domain.BusyInterval, error)

func (f BusySourceFunc) FetchBusy(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]domain.BusyInterval, error) {
	return f(ctx, userID, start, end)
}

// Named attaches a name to a source.
func Named(name string, src BusySource) NamedSource {
	return namedSource{name: name, BusySource: src}
}

type namedSource struct {
	BusySource
	name string
}

func (n namedSource) Name() string { return n.name }
