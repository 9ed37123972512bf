package application

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	windowStart = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	windowEnd   = windowStart.AddDate(0, 0, 7)
)

func fixed(intervals ...domain.BusyInterval) BusySourceFunc {
	return func(context.Context, uuid.UUID, time.Time, time.Time) ([]domain.BusyInterval, error) {
		return intervals, nil
	}
}

func failing(err error) BusySourceFunc {
	return func(context.Context, uuid.UUID, time.Time, time.Time) ([]domain.BusyInterval, error) {
		return nil, err
	}
}

func hours(day, from, to int) domain.BusyInterval {
	return domain.BusyInterval{
		Start: time.Date(2026, 10, day, from, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 10, day, to, 0, 0, 0, time.UTC),
	}
}

func TestCompositeSource_SkipsFailingExternal(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	c := NewCompositeSource(fixed(hours(19, 9, 10)), logger,
		Named("caldav", failing(errors.New("timeout"))),
		Named("google", fixed(hours(20, 13, 15))),
	)

	busy, err := c.FetchBusy(context.Background(), uuid.New(), windowStart, windowEnd)
	require.NoError(t, err)
	assert.Equal(t, []domain.BusyInterval{hours(19, 9, 10), hours(20, 13, 15)}, busy)
	assert.Contains(t, logs.String(), "source=caldav")
	assert.Equal(t, []string{"caldav", "google"}, c.Sources())
}

func TestCompositeSource_RequiredFailureFails(t *testing.T) {
	c := NewCompositeSource(failing(errors.New("db down")), nil, Named("google", fixed()))
	_, err := c.FetchBusy(context.Background(), uuid.New(), windowStart, windowEnd)
	assert.EqualError(t, err, "db down")
}

func TestCompositeSource_ClipsExternal(t *testing.T) {
	early := domain.BusyInterval{Start: windowStart.Add(-2 * time.Hour), End: windowStart.Add(time.Hour)}
	outside := domain.BusyInterval{Start: windowEnd.Add(time.Hour), End: windowEnd.Add(2 * time.Hour)}
	broken := domain.BusyInterval{Start: windowStart.Add(time.Hour), End: windowStart}

	c := NewCompositeSource(nil, nil, Named("caldav", fixed(early, outside, broken)))
	busy, err := c.FetchBusy(context.Background(), uuid.New(), windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.Equal(t, windowStart, busy[0].Start)
	assert.Equal(t, 60, busy[0].Minutes())
}

func TestBreakerSource_OpensAfterFailures(t *testing.T) {
	calls := 0
	inner := Named("google", BusySourceFunc(func(context.Context, uuid.UUID, time.Time, time.Time) ([]domain.BusyInterval, error) {
		calls++
		return nil, errors.New("503")
	}))
	b := NewBreakerSource(inner, BreakerConfig{MaxRequests: 1, Timeout: time.Hour, FailureThreshold: 2}, nil)
	assert.Equal(t, "google", b.Name())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := b.FetchBusy(ctx, uuid.New(), windowStart, windowEnd)
		assert.EqualError(t, err, "503")
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.FetchBusy(ctx, uuid.New(), windowStart, windowEnd)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, calls)
}

func TestBreakerSource_PassesThrough(t *testing.T) {
	b := NewBreakerSource(Named("caldav", fixed(hours(21, 8, 9))), DefaultBreakerConfig(), nil)
	busy, err := b.FetchBusy(context.Background(), uuid.New(), windowStart, windowEnd)
	require.NoError(t, err)
	assert.Len(t, busy, 1)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
