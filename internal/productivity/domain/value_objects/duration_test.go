package value_objects_test

import (
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDuration(t *testing.T) {
	t.Run("accepts a full day", func(t *testing.T) {
		d, err := value_objects.NewDuration(24 * time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 1440, d.Minutes())
	})

	t.Run("rejects negative", func(t *testing.T) {
		_, err := value_objects.NewDuration(-time.Minute)
		assert.ErrorIs(t, err, value_objects.ErrInvalidDuration)
	})

	t.Run("rejects longer than a day", func(t *testing.T) {
		_, err := value_objects.NewDurationMinutes(1441)
		assert.ErrorIs(t, err, value_objects.ErrDurationTooLong)
	})
}

func TestDuration_String(t *testing.T) {
	tests := map[int]string{
		0:   "0m",
		45:  "45m",
		120: "2h",
		90:  "1h30m",
	}
	for minutes, want := range tests {
		d, err := value_objects.NewDurationMinutes(minutes)
		require.NoError(t, err)
		assert.Equal(t, want, d.String())
	}
}
