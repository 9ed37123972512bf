package domain

import "github.com/google/uuid"

// AggregateRoot is the consistency boundary that records domain events
// until they are handed to the outbox.
type AggregateRoot interface {
	Entity
	DomainEvents() []DomainEvent
	ClearDomainEvents()
	Version() int
}

// BaseAggregateRoot is embedded by every aggregate.
type BaseAggregateRoot struct {
	BaseEntity
	events  []DomainEvent
	version int
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity()}
}

func NewBaseAggregateRootWithID(id uuid.UUID) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntityWithID(id)}
}

// RehydrateBaseAggregateRoot rebuilds an aggregate loaded from storage.
// Rehydrated aggregates start with no pending events.
func RehydrateBaseAggregateRoot(entity BaseEntity, version int) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: entity, version: version}
}

// DomainEvents returns the events raised since the last clear.
func (a *BaseAggregateRoot) DomainEvents() []DomainEvent {
	return a.events
}

func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.events = nil
}

// AddDomainEvent records an event and touches the aggregate.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
	a.Touch()
}

// Version is used for optimistic concurrency checks in repositories.
func (a *BaseAggregateRoot) Version() int {
	return a.version
}

func (a *BaseAggregateRoot) IncrementVersion() {
	a.version++
}

func (a *BaseAggregateRoot) SetVersion(version int) {
	a.version = version
}
