package queries

import (
	"context"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/planning"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/services"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
)

// GetWeekLoadQuery contains the parameters for a week's load table.
// WeekStart defaults to the current week.
type GetWeekLoadQuery struct {
	UserID    uuid.UUID
	WeekStart *domain.Day
}

// WeekLoadDTO is the load of seven consecutive days.
type WeekLoadDTO struct {
	WeekStart  domain.Day       `json:"week_start"`
	Capacity   int              `json:"capacity_minutes"`
	Days       []domain.DayLoad `json:"days"`
	Overloaded bool             `json:"overloaded"`
}

// GetWeekLoadHandler handles the GetWeekLoadQuery.
type GetWeekLoadHandler struct {
	loader *planning.Loader
}

// NewGetWeekLoadHandler creates a new GetWeekLoadHandler.
func NewGetWeekLoadHandler(loader *planning.Loader) *GetWeekLoadHandler {
	return &GetWeekLoadHandler{loader: loader}
}

// Handle executes the GetWeekLoadQuery.
func (h *GetWeekLoadHandler) Handle(ctx context.Context, query GetWeekLoadQuery) (*WeekLoadDTO, error) {
	snap, err := h.loader.Load(ctx, query.UserID, query.WeekStart == nil)
	if err != nil {
		return nil, err
	}
	opts := snap.Options
	busy := snap.Busy
	if query.WeekStart != nil {
		opts.WeekStart = *query.WeekStart
		busy, err = h.loader.Busy(ctx, query.UserID, opts.WeekStart.Start(opts.Location), opts.WeekStart.AddDays(7).Start(opts.Location))
		if err != nil {
			return nil, err
		}
	}

	dto := &WeekLoadDTO{
		WeekStart: opts.WeekStart,
		Capacity:  opts.DailyCapacityMinutes,
		Days:      services.WeekLoad(snap.PlanTasks(), busy, opts),
	}
	for _, d := range dto.Days {
		dto.Overloaded = dto.Overloaded || d.Overloaded
	}
	return dto, nil
}
