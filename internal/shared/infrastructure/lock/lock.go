// Package lock serializes planning runs per user.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLocked means another holder owns the key.
var ErrLocked = errors.New("lock held by another run")

// Release gives the lock back. It is safe to call after the TTL expired.
type Release func(ctx context.Context) error

// Locker hands out expiring, exclusive locks by key.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

// PlanKey is the lock key for one user's planning runs.
func PlanKey(userID string) string {
	return "tired:plan:" + userID
}

// LocalLocker is the in-process Locker used when Redis is not configured.
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]localEntry
	seq   uint64
	clock func() time.Time
}

type localEntry struct {
	token   uint64
	expires time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: map[string]localEntry{}, clock: time.Now}
}

func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if e, ok := l.held[key]; ok && now.Before(e.expires) {
		return nil, ErrLocked
	}
	l.seq++
	token := l.seq
	l.held[key] = localEntry{token: token, expires: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if e, ok := l.held[key]; ok && e.token == token {
			delete(l.held, key)
		}
		return nil
	}, nil
}
