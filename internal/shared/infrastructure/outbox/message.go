// Package outbox stores domain events in the same transaction as the
// aggregate change and relays them to the broker afterwards.
package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/shared/domain"
	"github.com/google/uuid"
)

// Message is one stored event.
type Message struct {
	ID               int64
	EventID          uuid.UUID
	AggregateType    string
	AggregateID      uuid.UUID
	EventType        string
	RoutingKey       string
	Payload          json.RawMessage
	Metadata         json.RawMessage
	CreatedAt        time.Time
	PublishedAt      *time.Time
	NextRetryAt      *time.Time
	RetryCount       int
	LastError        *string
	DeadLetteredAt   *time.Time
	DeadLetterReason *string
}

// NewMessage serializes event. The routing key doubles as the event type.
func NewMessage(event domain.DomainEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", event.RoutingKey(), err)
	}
	metadata, err := json.Marshal(event.Metadata())
	if err != nil {
		return nil, fmt.Errorf("marshal %s metadata: %w", event.RoutingKey(), err)
	}

	return &Message{
		EventID:       event.EventID(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		EventType:     event.RoutingKey(),
		RoutingKey:    event.RoutingKey(),
		Payload:       payload,
		Metadata:      metadata,
		CreatedAt:     event.OccurredAt(),
	}, nil
}

// NewMessages converts every event, failing on the first that cannot be
// serialized.
func NewMessages(events []domain.DomainEvent) ([]*Message, error) {
	msgs := make([]*Message, 0, len(events))
	for _, e := range events {
		msg, err := NewMessage(e)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (m *Message) IsPublished() bool { return m.PublishedAt != nil }

func (m *Message) IsDead() bool { return m.DeadLetteredAt != nil }

// DueAt reports whether the message may be attempted at now.
func (m *Message) DueAt(now time.Time) bool {
	if m.IsPublished() || m.IsDead() {
		return false
	}
	return m.NextRetryAt == nil || !m.NextRetryAt.After(now)
}

// EventMetadata decodes the stored metadata, returning zero values when it
// is missing or malformed.
func (m *Message) EventMetadata() domain.EventMetadata {
	var meta domain.EventMetadata
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &meta)
	}
	return meta
}
