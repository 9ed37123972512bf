package value_objects_test

import (
	"testing"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected value_objects.Priority
		wantErr  bool
	}{
		{"low", "low", value_objects.PriorityLow, false},
		{"medium", "medium", value_objects.PriorityMedium, false},
		{"high", "high", value_objects.PriorityHigh, false},
		{"case insensitive", "HIGH", value_objects.PriorityHigh, false},
		{"padded", "  Medium ", value_objects.PriorityMedium, false},
		{"urgent is not a level", "urgent", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := value_objects.ParsePriority(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, value_objects.ErrInvalidPriority)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPriority_Rank(t *testing.T) {
	assert.Less(t, value_objects.PriorityLow.Rank(), value_objects.PriorityMedium.Rank())
	assert.Less(t, value_objects.PriorityMedium.Rank(), value_objects.PriorityHigh.Rank())
	assert.Equal(t, value_objects.PriorityMedium, value_objects.DefaultPriority)
}

func TestPriority_TextRoundTrip(t *testing.T) {
	var p value_objects.Priority
	require.NoError(t, p.UnmarshalText([]byte("high")))
	assert.Equal(t, value_objects.PriorityHigh, p)

	_, err := value_objects.Priority(0).MarshalText()
	assert.ErrorIs(t, err, value_objects.ErrInvalidPriority)
	assert.Equal(t, "unknown", value_objects.Priority(42).String())
}
