// Package feerulerepo maps courier fee rules to the courier_fee_rules table.
package feerulerepo

import (
	"marketplace/internal/core/domain/model/feerule"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// RuleDTO stores a distance bucket [MinMeters, MaxMeters). A NULL MaxMeters is unbounded.
type RuleDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID uuid.UUID `gorm:"type:uuid;not null;index:idx_fee_rules_courier_active"`
	MinMeters int       `gorm:"not null"`
	MaxMeters *int      `gorm:"default:null"`
	BaseFee   int64     `gorm:"not null"`
	PerKmFee  int64     `gorm:"not null"`
	Active    bool      `gorm:"not null;index:idx_fee_rules_courier_active"`
}

func (RuleDTO) TableName() string {
	return "courier_fee_rules"
}

func fromDomain(r *feerule.Rule) RuleDTO {
	return RuleDTO{
		ID:        r.ID().Bytes(),
		CourierID: r.CourierID().Bytes(),
		MinMeters: r.MinMeters(),
		MaxMeters: r.MaxMeters(),
		BaseFee:   r.BaseFee(),
		PerKmFee:  r.PerKmFee(),
		Active:    r.IsActive(),
	}
}

func toDomain(dto RuleDTO) (*feerule.Rule, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	return feerule.RestoreRule(id, courierID, dto.MinMeters, dto.MaxMeters, dto.BaseFee, dto.PerKmFee, dto.Active)
}
