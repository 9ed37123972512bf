package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database/sqlite"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/migrations"
)

func TestRun_SQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := sqlite.OpenMemory(ctx)
	require.NoError(t, err)
	defer conn.Close()

	applied, err := migrations.Run(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_tasks", "0002_busy_blocks", "0003_plan_runs", "0004_outbox"}, applied)

	for _, table := range []string{"tasks", "busy_blocks", "plan_runs", "outbox"} {
		var name string
		err := conn.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	again, err := migrations.Run(ctx, conn)
	require.NoError(t, err)
	assert.Empty(t, again)
}
