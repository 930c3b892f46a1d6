// Package courierrepo reads couriers registered by the onboarding service.
// The core never writes this table.
package courierrepo

import (
	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO is a row of the couriers table.
type CourierDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name   string    `gorm:"type:varchar(255);not null"`
	Active bool      `gorm:"not null"`
}

// TableName overrides GORM's default "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// FromDomain builds a row; onboarding fixtures and tests use it to seed couriers.
func FromDomain(c *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:     c.ID().Bytes(),
		Name:   c.Name(),
		Active: c.IsActive(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return courier.RestoreCourier(id, dto.Name, dto.Active)
}
