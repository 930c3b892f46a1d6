package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for deliveries.
type DeliveryRepository interface {
	Add(ctx context.Context, aggregate *delivery.Delivery) error
	Update(ctx context.Context, aggregate *delivery.Delivery) error
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetForUpdate loads the delivery holding a row lock until the transaction ends.
	// Concurrent callers block here, so state checks after it see committed state.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)

	// ListStaleAssigned returns ASSIGNED deliveries assigned before the cutoff.
	ListStaleAssigned(ctx context.Context, assignedBefore time.Time, limit int) ([]*delivery.Delivery, error)

	// ListDeliveredWithoutSettlementItem returns DELIVERED deliveries completed in
	// [from, to) that have no courier settlement item yet.
	ListDeliveredWithoutSettlementItem(ctx context.Context, from, to time.Time) ([]*delivery.Delivery, error)
}
