package queries

import (
	"context"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
)

// BusyBlockDTO is a data transfer object for busy blocks.
type BusyBlockDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DurationMin int       `json:"duration_minutes"`
}

// ListBusyBlocksQuery contains the parameters for listing busy blocks
// overlapping [From, To).
type ListBusyBlocksQuery struct {
	UserID uuid.UUID
	From   time.Time
	To     time.Time
}

// ListBusyBlocksHandler handles the ListBusyBlocksQuery.
type ListBusyBlocksHandler struct {
	repo domain.BusyBlockRepository
}

// NewListBusyBlocksHandler creates a new ListBusyBlocksHandler.
func NewListBusyBlocksHandler(repo domain.BusyBlockRepository) *ListBusyBlocksHandler {
	return &ListBusyBlocksHandler{repo: repo}
}

// Handle executes the ListBusyBlocksQuery.
func (h *ListBusyBlocksHandler) Handle(ctx context.Context, query ListBusyBlocksQuery) ([]BusyBlockDTO, error) {
	blocks, err := h.repo.FindOverlapping(ctx, query.UserID, query.From, query.To)
	if err != nil {
		return nil, err
	}

	dtos := make([]BusyBlockDTO, 0, len(blocks))
	for _, b := range blocks {
		dtos = append(dtos, BusyBlockDTO{
			ID:          b.ID(),
			Title:       b.Title(),
			Source:      string(b.Source()),
			Start:       b.Start(),
			End:         b.End(),
			DurationMin: b.Interval().Minutes(),
		})
	}
	return dtos, nil
}
