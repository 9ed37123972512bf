package application

import (
	"context"

	"github.com/Miiduoa/tired-sub002/internal/shared/domain"
	"github.com/google/uuid"
)

type correlationKey struct{}

// WithCorrelationID stamps a request-wide correlation ID on ctx.
func WithCorrelationID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationIDFromContext returns the stamped correlation ID, if any.
func CorrelationIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(correlationKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

type metadataSetter interface {
	SetMetadata(metadata domain.EventMetadata)
}

// NewEventMetadata builds metadata for the events raised by one command.
// The correlation ID is taken from ctx when present so every event of a CLI
// invocation or worker run can be traced together.
func NewEventMetadata(ctx context.Context, userID uuid.UUID) domain.EventMetadata {
	correlationID, ok := CorrelationIDFromContext(ctx)
	if !ok {
		correlationID = uuid.New()
	}
	return domain.EventMetadata{
		CorrelationID: correlationID,
		CausationID:   uuid.New(),
		UserID:        userID,
	}
}

// ApplyEventMetadata sets metadata on every event that accepts it.
// Events are usually held by value inside the aggregate, so callers pass the
// slice they are about to persist.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) []domain.DomainEvent {
	out := make([]domain.DomainEvent, len(events))
	for i, event := range events {
		if setter, ok := event.(metadataSetter); ok {
			setter.SetMetadata(metadata)
		}
		out[i] = event
	}
	return out
}
