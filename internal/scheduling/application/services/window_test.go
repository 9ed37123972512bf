package services

import (
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildWindow(t *testing.T) {
	saturday := domain.NewDay(2026, time.October, 17)

	t.Run("workdays only", func(t *testing.T) {
		days := BuildWindow(saturday, 14, domain.DefaultWorkdays, false)

		// Saturday through the Saturday two weeks later holds ten weekdays.
		assert.Len(t, days, 10)
		assert.Equal(t, domain.NewDay(2026, time.October, 19), days[0])
		assert.Equal(t, domain.NewDay(2026, time.October, 30), days[len(days)-1])
		for _, d := range days {
			assert.False(t, d.IsWeekend(), d.String())
		}
	})

	t.Run("weekends as overflow", func(t *testing.T) {
		days := BuildWindow(saturday, 14, domain.DefaultWorkdays, true)
		assert.Len(t, days, 15)
		assert.Equal(t, saturday, days[0])
		assert.Equal(t, saturday.AddDays(14), days[14])
	})

	t.Run("custom workdays", func(t *testing.T) {
		set := domain.NewWorkdaySet(time.Tuesday, time.Thursday)
		days := BuildWindow(mondayDay, 6, set, false)
		assert.Equal(t, []domain.Day{mondayDay.AddDays(1), mondayDay.AddDays(3)}, days)
	})

	t.Run("ascending and unique", func(t *testing.T) {
		days := BuildWindow(mondayDay, 30, domain.NewWorkdaySet(time.Monday, time.Friday), true)
		for i := 1; i < len(days); i++ {
			assert.Less(t, days[i-1], days[i])
		}
	})

	t.Run("zero horizon is just today", func(t *testing.T) {
		assert.Equal(t, []domain.Day{mondayDay}, BuildWindow(mondayDay, 0, domain.DefaultWorkdays, false))
	})
}
