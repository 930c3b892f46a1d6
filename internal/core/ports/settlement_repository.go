package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
)

// OwnerSettlementRepository persists owner settlement headers and their items.
type OwnerSettlementRepository interface {
	// AddItem inserts a PENDING item. A second item for the same order
	// violates the unique key and returns errs.ErrObjectAlreadyExists.
	AddItem(ctx context.Context, item *settlement.OwnerItem) error
	GetItemByOrderID(ctx context.Context, orderID kernel.UUID) (*settlement.OwnerItem, error)
	ListPendingItems(ctx context.Context, ownerID kernel.UUID, period settlement.Period) ([]*settlement.OwnerItem, error)
	ListItems(ctx context.Context, settlementID kernel.UUID) ([]*settlement.OwnerItem, error)
	ListOwnersWithPendingItems(ctx context.Context, period settlement.Period) ([]kernel.UUID, error)

	// ClaimItems moves PENDING items to INCLUDED under settlementID and reports
	// how many rows it changed. Items claimed concurrently are skipped.
	ClaimItems(ctx context.Context, settlementID kernel.UUID, itemIDs []kernel.UUID) (int64, error)
	MarkItemsPaid(ctx context.Context, settlementID kernel.UUID) (int64, error)
	// CancelItems moves the INCLUDED items of settlementID to CANCELED.
	CancelItems(ctx context.Context, settlementID kernel.UUID) (int64, error)

	Add(ctx context.Context, aggregate *settlement.OwnerSettlement) error
	Update(ctx context.Context, aggregate *settlement.OwnerSettlement) error
	Get(ctx context.Context, id kernel.UUID) (*settlement.OwnerSettlement, error)
}

// CourierSettlementRepository mirrors OwnerSettlementRepository keyed by delivery.
type CourierSettlementRepository interface {
	AddItem(ctx context.Context, item *settlement.CourierItem) error
	GetItemByDeliveryID(ctx context.Context, deliveryID kernel.UUID) (*settlement.CourierItem, error)
	ListPendingItems(ctx context.Context, courierID kernel.UUID, period settlement.Period) ([]*settlement.CourierItem, error)
	ListItems(ctx context.Context, settlementID kernel.UUID) ([]*settlement.CourierItem, error)
	ListCouriersWithPendingItems(ctx context.Context, period settlement.Period) ([]kernel.UUID, error)

	ClaimItems(ctx context.Context, settlementID kernel.UUID, itemIDs []kernel.UUID) (int64, error)
	MarkItemsPaid(ctx context.Context, settlementID kernel.UUID) (int64, error)
	CancelItems(ctx context.Context, settlementID kernel.UUID) (int64, error)

	Add(ctx context.Context, aggregate *settlement.CourierSettlement) error
	Update(ctx context.Context, aggregate *settlement.CourierSettlement) error
	Get(ctx context.Context, id kernel.UUID) (*settlement.CourierSettlement, error)
}
