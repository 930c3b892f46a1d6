package ports

import (
	"context"

	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/kernel"
)

// StoreDirectory resolves store ownership. Stores are managed outside the core.
type StoreDirectory interface {
	// OwnerOf returns the store owner id or errs.ErrObjectNotFound.
	OwnerOf(ctx context.Context, storeID kernel.UUID) (kernel.UUID, error)
}

// CourierDirectory reads couriers registered by the onboarding layer.
type CourierDirectory interface {
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)
}
