package domain_test

import (
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWorkdays(t *testing.T) {
	assert.Equal(t, 5, domain.DefaultWorkdays.Len())
	assert.False(t, domain.DefaultWorkdays.Contains(time.Saturday))
	assert.False(t, domain.DefaultWorkdays.Contains(time.Sunday))
	assert.True(t, domain.DefaultWorkdays.Contains(time.Wednesday))
	assert.Equal(t, "mon,tue,wed,thu,fri", domain.DefaultWorkdays.String())
}

func TestParseWorkdaySet(t *testing.T) {
	t.Run("short and long names", func(t *testing.T) {
		set, err := domain.ParseWorkdaySet("Monday, wed ,sat")
		require.NoError(t, err)
		assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Saturday}, set.Days())
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := domain.ParseWorkdaySet("mon,funday")
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		set, err := domain.ParseWorkdaySet("")
		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
	})
}
