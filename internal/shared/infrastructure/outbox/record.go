package outbox

import (
	"context"

	"github.com/Miiduoa/tired-sub002/internal/shared/application"
	"github.com/Miiduoa/tired-sub002/internal/shared/domain"
)

// Record stamps metadata on the pending events of each aggregate, stores
// them in one batch and clears them from the aggregates. It must run inside
// the unit of work that saves the aggregates.
func Record(ctx context.Context, repo Repository, metadata domain.EventMetadata, aggregates ...domain.AggregateRoot) error {
	var events []domain.DomainEvent
	for _, agg := range aggregates {
		events = append(events, agg.DomainEvents()...)
	}
	if len(events) == 0 {
		return nil
	}

	msgs, err := NewMessages(application.ApplyEventMetadata(events, metadata))
	if err != nil {
		return err
	}
	if err := repo.Save(ctx, msgs...); err != nil {
		return err
	}
	for _, agg := range aggregates {
		agg.ClearDomainEvents()
	}
	return nil
}
