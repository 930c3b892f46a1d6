// Package deliveryrepo maps delivery aggregates to the deliveries table.
package deliveryrepo

import (
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO is the persisted shape of a delivery. Durations are stored in seconds.
type DeliveryDTO struct {
	ID                       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID                  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	CourierID                *uuid.UUID `gorm:"type:uuid;index"`
	Status                   string     `gorm:"type:varchar(16);not null;index"`
	DistanceMeters           int        `gorm:"not null"`
	EstimatedDurationSeconds int64      `gorm:"not null"`
	ActualDurationSeconds    *int64     `gorm:"default:null"`
	AssignedAt               *time.Time `gorm:"index"`
	AcceptedAt               *time.Time `gorm:"default:null"`
	PickedUpAt               *time.Time `gorm:"default:null"`
	StartedAt                *time.Time `gorm:"default:null"`
	CompletedAt              *time.Time `gorm:"index"`
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	var courierID *uuid.UUID
	if id := d.CourierID(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	var actual *int64
	if dur := d.ActualDuration(); dur != nil {
		seconds := int64(dur.Seconds())
		actual = &seconds
	}

	return DeliveryDTO{
		ID:                       d.ID().Bytes(),
		OrderID:                  d.OrderID().Bytes(),
		CourierID:                courierID,
		Status:                   d.Status().String(),
		DistanceMeters:           d.DistanceMeters(),
		EstimatedDurationSeconds: int64(d.EstimatedDuration().Seconds()),
		ActualDurationSeconds:    actual,
		AssignedAt:               d.AssignedAt(),
		AcceptedAt:               d.AcceptedAt(),
		PickedUpAt:               d.PickedUpAt(),
		StartedAt:                d.StartedAt(),
		CompletedAt:              d.CompletedAt(),
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var actual *time.Duration
	if dto.ActualDurationSeconds != nil {
		dur := time.Duration(*dto.ActualDurationSeconds) * time.Second
		actual = &dur
	}

	return delivery.RestoreDelivery(
		id, orderID,
		courierID,
		status,
		dto.DistanceMeters,
		time.Duration(dto.EstimatedDurationSeconds)*time.Second,
		delivery.Timeline{
			AssignedAt:     dto.AssignedAt,
			AcceptedAt:     dto.AcceptedAt,
			PickedUpAt:     dto.PickedUpAt,
			StartedAt:      dto.StartedAt,
			CompletedAt:    dto.CompletedAt,
			ActualDuration: actual,
		},
	)
}
