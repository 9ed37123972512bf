package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
)

// BusySource provides a user's busy intervals overlapping [start, end).
type BusySource interface {
	FetchBusy(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]domain.BusyInterval, error)
}

// StoredBusySource serves the busy blocks entered by hand.
type StoredBusySource struct {
	repo domain.BusyBlockRepository
}

func NewStoredBusySource(repo domain.BusyBlockRepository) *StoredBusySource {
	return &StoredBusySource{repo: repo}
}

func (s *StoredBusySource) FetchBusy(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]domain.BusyInterval, error) {
	blocks, err := s.repo.FindOverlapping(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("stored busy blocks: %w", err)
	}
	out := make([]domain.BusyInterval, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.Interval())
	}
	return out, nil
}

// Range is the time span a planning run reads busy time for: the reported
// week and the placement horizon, whichever reaches further.
func Range(opts domain.AutoPlanOptions, today domain.Day) (time.Time, time.Time) {
	first := min(opts.WeekStart, today)
	last := max(opts.WeekStart.AddDays(7), today.AddDays(opts.HorizonDays+1))
	return first.Start(opts.Location), last.Start(opts.Location)
}

// OptionsFunc builds the planning options for a run starting at now.
type OptionsFunc func(now time.Time) (domain.AutoPlanOptions, error)
