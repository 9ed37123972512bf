package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/metrics"
	"github.com/google/uuid"
)

// CompositeSource merges a required source with optional external ones.
// A failing external source is logged and skipped so planning goes on with
// the data that is available. A failing required source fails the fetch.
type CompositeSource struct {
	required BusySource
	external []NamedSource
	logger   *slog.Logger
}

// NewCompositeSource builds a composite. required may be nil.
func NewCompositeSource(required BusySource, logger *slog.Logger, external ...NamedSource) *CompositeSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompositeSource{required: required, external: external, logger: logger}
}

func (c *CompositeSource) FetchBusy(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]domain.BusyInterval, error) {
	var out []domain.BusyInterval
	if c.required != nil {
		busy, err := c.required.FetchBusy(ctx, userID, start, end)
		if err != nil {
			return nil, err
		}
		out = append(out, busy...)
	}

	for _, src := range c.external {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		busy, err := src.FetchBusy(ctx, userID, start, end)
		if err != nil {
			c.logger.Warn("busy source unavailable, planning without it",
				"source", src.Name(),
				"user_id", userID,
				"error", err,
			)
			metrics.RecordBusySourceFailure(src.Name())
			continue
		}
		out = append(out, clip(busy, start, end)...)
	}
	return out, nil
}

// Sources lists the external source names.
func (c *CompositeSource) Sources() []string {
	names := make([]string, len(c.external))
	for i, s := range c.external {
		names[i] = s.Name()
	}
	return names
}

// clip drops invalid intervals and trims the rest to [start, end).
func clip(busy []domain.BusyInterval, start, end time.Time) []domain.BusyInterval {
	out := make([]domain.BusyInterval, 0, len(busy))
	for _, b := range busy {
		if !b.Valid() || !b.Overlaps(start, end) {
			continue
		}
		if b.Start.Before(start) {
			b.Start = start
		}
		if b.End.After(end) {
			b.End = end
		}
		out = append(out, b)
	}
	return out
}
