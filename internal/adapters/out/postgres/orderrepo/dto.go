// Package orderrepo maps order aggregates to the orders table.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the persisted shape of an order. Version is the compare-and-set token.
type OrderDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	BuyerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	StoreID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Address      string    `gorm:"type:text;not null"`
	TotalPrice   int64     `gorm:"not null"`
	DeliveryFee  int64     `gorm:"not null"`
	Status       string    `gorm:"type:varchar(16);not null;index"`
	RejectReason string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"not null"`
	Version      int       `gorm:"not null;default:0"`
}

// TableName overrides GORM's default "order_dtos".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:           o.ID().Bytes(),
		BuyerID:      o.BuyerID().Bytes(),
		StoreID:      o.StoreID().Bytes(),
		Address:      o.Address(),
		TotalPrice:   o.TotalPrice(),
		DeliveryFee:  o.DeliveryFee(),
		Status:       o.Status().String(),
		RejectReason: o.RejectReason(),
		CreatedAt:    o.CreatedAt(),
		Version:      o.Version(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}
	storeID, err := kernel.UUIDFromBytes(dto.StoreID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, buyerID, storeID,
		dto.Address,
		dto.TotalPrice, dto.DeliveryFee,
		status,
		dto.RejectReason,
		dto.CreatedAt,
		dto.Version,
	)
}
