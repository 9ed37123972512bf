package domain_test

import (
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDay_Basics(t *testing.T) {
	epoch := domain.NewDay(1970, time.January, 1)
	assert.Equal(t, domain.Day(0), epoch)
	assert.Equal(t, time.Thursday, epoch.Weekday())
	assert.Equal(t, "1970-01-01", epoch.String())

	before := domain.NewDay(1969, time.December, 31)
	assert.Equal(t, domain.Day(-1), before)
	assert.Equal(t, time.Wednesday, before.Weekday())
}

func TestDay_WeekStart(t *testing.T) {
	// 2026-10-17 is a Saturday.
	sat := domain.NewDay(2026, time.October, 17)
	assert.Equal(t, time.Saturday, sat.Weekday())
	assert.Equal(t, domain.NewDay(2026, time.October, 12), sat.WeekStart())

	mon := domain.NewDay(2026, time.October, 12)
	assert.Equal(t, mon, mon.WeekStart())

	sun := domain.NewDay(2026, time.October, 18)
	assert.Equal(t, mon, sun.WeekStart())
}

func TestDayOf_UsesLocation(t *testing.T) {
	taipei := time.FixedZone("UTC+8", 8*60*60)
	instant := time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, domain.NewDay(2026, time.March, 1), domain.DayOf(instant, time.UTC))
	assert.Equal(t, domain.NewDay(2026, time.March, 2), domain.DayOf(instant, taipei))
}

func TestDay_StartAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// Clocks move forward on 2026-03-08, so that day is 23 hours long.
	d := domain.NewDay(2026, time.March, 8)
	length := d.AddDays(1).Start(ny).Sub(d.Start(ny))
	assert.Equal(t, 23*time.Hour, length)
	assert.Equal(t, d, domain.DayOf(d.Start(ny), ny))
}

func TestParseDay(t *testing.T) {
	d, err := domain.ParseDay("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, domain.NewDay(2026, time.October, 19), d)

	_, err = domain.ParseDay("19/10/2026")
	assert.ErrorIs(t, err, domain.ErrInvalidDay)

	var txt domain.Day
	require.NoError(t, txt.UnmarshalText([]byte("2026-01-05")))
	out, err := txt.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", string(out))
}
