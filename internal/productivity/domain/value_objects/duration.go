package value_objects

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDuration = errors.New("duration must not be negative")
	ErrDurationTooLong = errors.New("duration exceeds maximum allowed")
)

// MaxDuration caps a single task estimate at one full day.
const MaxDuration = 24 * time.Hour

// Duration is an estimated task effort.
type Duration struct {
	value time.Duration
}

// NewDuration validates d as a task estimate.
func NewDuration(d time.Duration) (Duration, error) {
	if d < 0 {
		return Duration{}, ErrInvalidDuration
	}
	if d > MaxDuration {
		return Duration{}, ErrDurationTooLong
	}
	return Duration{value: d}, nil
}

// NewDurationMinutes is NewDuration for whole minutes.
func NewDurationMinutes(minutes int) (Duration, error) {
	return NewDuration(time.Duration(minutes) * time.Minute)
}

// MustNewDuration panics when d is not a valid estimate.
func MustNewDuration(d time.Duration) Duration {
	dur, err := NewDuration(d)
	if err != nil {
		panic(err)
	}
	return dur
}

func (d Duration) Minutes() int {
	return int(d.value / time.Minute)
}

func (d Duration) Value() time.Duration {
	return d.value
}

func (d Duration) IsZero() bool {
	return d.value == 0
}

// String renders the estimate as 1h30m, 2h or 45m.
func (d Duration) String() string {
	total := d.Minutes()
	hours, minutes := total/60, total%60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh%dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
