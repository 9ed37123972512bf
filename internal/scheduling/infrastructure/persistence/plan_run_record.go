package persistence

import (
	"fmt"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
)

// DefaultPlanRunLimit caps history queries that pass no limit.
const DefaultPlanRunLimit = 20

// planRunRecord is the driver-neutral shape of a row.
type planRunRecord struct {
	ID, UserID, Kind, WeekStart string
	RanAt                       time.Time
	Scheduled, Skipped, Moved   int
	OverloadedDays, Suggestions []string
}

func (r planRunRecord) toRun() (*domain.PlanRun, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("plan run id %q: %w", r.ID, err)
	}
	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return nil, fmt.Errorf("user id of plan run %s: %w", r.ID, err)
	}
	weekStart, err := domain.ParseDay(r.WeekStart)
	if err != nil {
		return nil, fmt.Errorf("week start of plan run %s: %w", r.ID, err)
	}
	overloaded := make([]domain.Day, 0, len(r.OverloadedDays))
	for _, s := range r.OverloadedDays {
		d, err := domain.ParseDay(s)
		if err != nil {
			return nil, fmt.Errorf("overloaded day of plan run %s: %w", r.ID, err)
		}
		overloaded = append(overloaded, d)
	}
	return domain.RehydratePlanRun(id, userID, domain.PlanRunKind(r.Kind), r.RanAt, weekStart,
		r.Scheduled, r.Skipped, r.Moved, overloaded, nonNil(r.Suggestions)), nil
}

func dayStrings(days []domain.Day) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
