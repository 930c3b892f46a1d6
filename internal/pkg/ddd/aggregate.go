// Package ddd holds the building blocks shared by all aggregates: the domain event
// contract and the base aggregate that records events and the optimistic version.
package ddd

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened to an aggregate and is published after commit.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

// AggregateRoot is implemented by every aggregate that records domain events.
type AggregateRoot interface {
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseEvent carries the envelope fields common to all domain events.
type BaseEvent struct {
	ID          uuid.UUID `json:"event_id"`
	Type        string    `json:"event_type"`
	AggregateOf uuid.UUID `json:"aggregate_id"`
	Occurred    time.Time `json:"occurred_at"`
}

// NewBaseEvent stamps a new event id and occurrence time.
func NewBaseEvent(eventType string, aggregateID uuid.UUID) BaseEvent {
	return BaseEvent{
		ID:          uuid.New(),
		Type:        eventType,
		AggregateOf: aggregateID,
		Occurred:    time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() uuid.UUID     { return e.ID }
func (e BaseEvent) EventType() string      { return e.Type }
func (e BaseEvent) AggregateID() uuid.UUID { return e.AggregateOf }
func (e BaseEvent) OccurredAt() time.Time  { return e.Occurred }

// BaseAggregate is embedded by aggregates. It is not safe for concurrent use;
// aggregates live inside a single unit of work.
type BaseAggregate struct {
	domainEvents []DomainEvent
	version      int
}

func (a *BaseAggregate) RaiseDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

func (a *BaseAggregate) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

func (a *BaseAggregate) ClearDomainEvents() {
	a.domainEvents = nil
}

// Version is the persisted version the aggregate was loaded with.
func (a *BaseAggregate) Version() int {
	return a.version
}

// SetVersion is called by repositories after a successful compare-and-set write.
func (a *BaseAggregate) SetVersion(version int) {
	a.version = version
}
