package sqlite

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTime_SortsAsText(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	early := time.Date(2026, 10, 19, 9, 0, 0, 0, loc)
	late := early.Add(time.Nanosecond)

	a, b := FormatTime(early), FormatTime(late)
	assert.Equal(t, "2026-10-19T01:00:00.000000000Z", a)
	assert.Less(t, a, b)

	back, err := ParseTime(b)
	require.NoError(t, err)
	assert.True(t, back.Equal(late))
}

func TestParseNullTime(t *testing.T) {
	got, err := ParseNullTime(sql.NullString{})
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseNullTime(sql.NullString{String: "2026-10-19T09:00:00Z", Valid: true})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 9, got.Hour())

	_, err = ParseNullTime(sql.NullString{String: "monday", Valid: true})
	assert.Error(t, err)

	assert.Nil(t, FormatTimePtr(nil))
	assert.Nil(t, NullString(nil))
}
