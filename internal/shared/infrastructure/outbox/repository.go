package outbox

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

var ErrMessageNotFound = errors.New("outbox message not found")

// Repository persists outbox messages. Save joins the transaction carried
// by ctx so events commit together with the aggregate.
type Repository interface {
	Save(ctx context.Context, msgs ...*Message) error
	// Pending returns messages that are neither published nor dead and whose
	// retry time has passed, oldest first.
	Pending(ctx context.Context, now time.Time, limit int) ([]*Message, error)
	MarkPublished(ctx context.Context, id int64, at time.Time) error
	MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string, at time.Time) error
	// Purge deletes messages published before cutoff.
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// InMemoryRepository backs the CLI in dry runs and the tests.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	msgs   []*Message
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Save(_ context.Context, msgs ...*Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.nextID++
		m.ID = r.nextID
		r.msgs = append(r.msgs, m)
	}
	return nil
}

func (r *InMemoryRepository) Pending(_ context.Context, now time.Time, limit int) ([]*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Message
	for _, m := range r.msgs {
		if m.DueAt(now) {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b *Message) int { return a.CreatedAt.Compare(b.CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) MarkPublished(_ context.Context, id int64, at time.Time) error {
	return r.update(id, func(m *Message) { m.PublishedAt = &at })
}

func (r *InMemoryRepository) MarkFailed(_ context.Context, id int64, reason string, nextRetryAt time.Time) error {
	return r.update(id, func(m *Message) {
		m.RetryCount++
		m.LastError = &reason
		m.NextRetryAt = &nextRetryAt
	})
}

func (r *InMemoryRepository) MarkDead(_ context.Context, id int64, reason string, at time.Time) error {
	return r.update(id, func(m *Message) {
		m.RetryCount++
		m.LastError = &reason
		m.DeadLetteredAt = &at
		m.DeadLetterReason = &reason
	})
}

func (r *InMemoryRepository) Purge(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.msgs)
	r.msgs = slices.DeleteFunc(r.msgs, func(m *Message) bool {
		return m.PublishedAt != nil && m.PublishedAt.Before(cutoff)
	})
	return int64(before - len(r.msgs)), nil
}

// All returns a snapshot of every stored message.
func (r *InMemoryRepository) All() []*Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.msgs)
}

func (r *InMemoryRepository) update(id int64, fn func(*Message)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.ID == id {
			fn(m)
			return nil
		}
	}
	return ErrMessageNotFound
}
