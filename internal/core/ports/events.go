package ports

import (
	"context"

	"marketplace/internal/pkg/ddd"
)

// EventPublisher delivers domain events after the transaction that raised them commits.
type EventPublisher interface {
	Publish(ctx context.Context, events ...ddd.DomainEvent) error
}
