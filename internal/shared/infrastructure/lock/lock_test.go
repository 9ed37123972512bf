package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	l := NewLocalLocker()
	l.clock = func() time.Time { return now }

	release, err := l.Acquire(ctx, PlanKey("u1"), time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, PlanKey("u1"), time.Minute)
	assert.ErrorIs(t, err, ErrLocked)

	other, err := l.Acquire(ctx, PlanKey("u2"), time.Minute)
	require.NoError(t, err, "keys are independent")
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))
	again, err := l.Acquire(ctx, PlanKey("u1"), time.Minute)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestLocalLocker_ExpiredHolderCannotReleaseSuccessor(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	l := NewLocalLocker()
	l.clock = func() time.Time { return now }

	stale, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err, "expired lock can be taken over")

	require.NoError(t, stale(ctx))
	_, err = l.Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, ErrLocked, "stale release must not free the new holder")
}

func TestRedisLocker(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	defer client.Close()

	ctx := context.Background()
	key := PlanKey("lock-test-" + time.Now().Format(time.RFC3339Nano))
	l := NewRedisLocker(client)

	release, err := l.Acquire(ctx, key, 10*time.Second)
	require.NoError(t, err)
	_, err = l.Acquire(ctx, key, 10*time.Second)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, release(ctx))
	release, err = l.Acquire(ctx, key, 10*time.Second)
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}
