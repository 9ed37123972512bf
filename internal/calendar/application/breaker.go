package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig tunes the circuit breaker around one source.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerConfig opens after three consecutive failures and probes
// again after a minute.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         5 * time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 3,
	}
}

// BreakerSource stops calling a failing calendar for a while instead of
// slowing every planning run down.
type BreakerSource struct {
	inner   NamedSource
	breaker *gobreaker.CircuitBreaker[[]domain.BusyInterval]
}

// NewBreakerSource wraps inner. A nil logger falls back to slog.Default.
func NewBreakerSource(inner NamedSource, cfg BreakerConfig, logger *slog.Logger) *BreakerSource {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}
	settings := gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("busy source circuit changed",
				"source", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return &BreakerSource{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[[]domain.BusyInterval](settings),
	}
}

func (b *BreakerSource) Name() string { return b.inner.Name() }

// FetchBusy calls the inner source unless the circuit is open, in which case
// it fails fast with gobreaker.ErrOpenState.
func (b *BreakerSource) FetchBusy(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]domain.BusyInterval, error) {
	return b.breaker.Execute(func() ([]domain.BusyInterval, error) {
		return b.inner.FetchBusy(ctx, userID, start, end)
	})
}

// State reports the breaker state.
func (b *BreakerSource) State() gobreaker.State {
	return b.breaker.State()
}
