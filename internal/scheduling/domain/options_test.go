package domain_test

import (
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var saturday = time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)

func TestNewAutoPlanOptions_Defaults(t *testing.T) {
	opts, err := domain.NewAutoPlanOptions(saturday, domain.WithLocation(time.UTC))
	require.NoError(t, err)

	assert.Equal(t, domain.NewDay(2026, time.October, 12), opts.WeekStart)
	assert.Equal(t, 600, opts.WeeklyCapacityMinutes)
	assert.Equal(t, 5, opts.WorkdaysInWeek)
	assert.Equal(t, 120, opts.DailyCapacityMinutes)
	assert.Equal(t, domain.DefaultWorkdays, opts.Workdays)
	assert.Equal(t, 14, opts.HorizonDays)
	assert.True(t, opts.PreferPriority)
	assert.False(t, opts.AllowWeekends)
	assert.InDelta(t, 132.0, domain.SoftCeiling(opts.DailyCapacityMinutes), 0.001)
	assert.Equal(t, 3.0, opts.PriorityWeights.Weight(value_objects.PriorityHigh))
}

func TestNewAutoPlanOptions_DerivedCapacity(t *testing.T) {
	tests := []struct {
		name    string
		options []domain.AutoPlanOption
		daily   int
		days    int
	}{
		{
			name:    "explicit daily wins",
			options: []domain.AutoPlanOption{domain.WithDailyCapacity(480)},
			daily:   480,
			days:    5,
		},
		{
			name:    "workdays set drives the divisor",
			options: []domain.AutoPlanOption{domain.WithWorkdays(domain.NewWorkdaySet(time.Monday, time.Tuesday, time.Wednesday))},
			daily:   200,
			days:    3,
		},
		{
			name:    "divisor clamped up to one",
			options: []domain.AutoPlanOption{domain.WithWorkdaysInWeek(0)},
			daily:   600,
			days:    1,
		},
		{
			name:    "divisor clamped down to seven",
			options: []domain.AutoPlanOption{domain.WithWeeklyCapacity(700), domain.WithWorkdaysInWeek(12)},
			daily:   100,
			days:    7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := domain.NewAutoPlanOptions(saturday, tt.options...)
			require.NoError(t, err)
			assert.Equal(t, tt.daily, opts.DailyCapacityMinutes)
			assert.Equal(t, tt.days, opts.WorkdaysInWeek)
		})
	}
}

func TestNewAutoPlanOptions_RejectsNonPositiveCapacity(t *testing.T) {
	_, err := domain.NewAutoPlanOptions(saturday, domain.WithWeeklyCapacity(3))
	assert.ErrorIs(t, err, domain.ErrInvalidCapacity)

	_, err = domain.NewAutoPlanOptions(saturday, domain.WithDailyCapacity(0))
	assert.ErrorIs(t, err, domain.ErrInvalidCapacity)
}

func TestNewAutoPlanOptions_HorizonClamp(t *testing.T) {
	opts, err := domain.NewAutoPlanOptions(saturday, domain.WithHorizonDays(-3))
	require.NoError(t, err)
	assert.Equal(t, 1, opts.HorizonDays)
}
