package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDriver(t *testing.T) {
	tests := []struct {
		url  string
		want Driver
	}{
		{"", DriverSQLite},
		{"postgres://u:p@localhost:5432/tired", DriverPostgres},
		{"postgresql://localhost/tired", DriverPostgres},
		{"sqlite:///tmp/tired.db", DriverSQLite},
		{"file:tired.db?cache=shared", DriverSQLite},
		{"/home/me/.tired/data.db", DriverSQLite},
		{"plan.sqlite3", DriverSQLite},
		{"host=localhost dbname=tired", DriverPostgres},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDriver(tt.url))
		})
	}
}

func TestParseDriver(t *testing.T) {
	d, err := ParseDriver("", "postgres://localhost/tired")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, d)

	d, err = ParseDriver("auto", "")
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, d)

	d, err = ParseDriver(" PostgreSQL ", "")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, d)

	d, err = ParseDriver("sqlite3", "postgres://x")
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, d)

	_, err = ParseDriver("mysql", "")
	assert.Error(t, err)

	assert.True(t, DriverSQLite.IsValid())
	assert.False(t, Driver("mysql").IsValid())
}
