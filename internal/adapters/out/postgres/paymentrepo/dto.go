// Package paymentrepo maps payment aggregates to the payments table.
package paymentrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"

	"github.com/google/uuid"
)

// PaymentDTO is the persisted shape of a payment. ExternalRef is NULL until the
// provider reference is known, so the unique index only covers confirmed ones.
type PaymentDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Method      string     `gorm:"type:varchar(32)"`
	Amount      int64      `gorm:"not null"`
	Status      string     `gorm:"type:varchar(16);not null"`
	MerchantRef string     `gorm:"type:varchar(128);not null;uniqueIndex"`
	ExternalRef *string    `gorm:"type:varchar(128);uniqueIndex"`
	PaidAt      *time.Time `gorm:"index"`
	CreatedAt   time.Time  `gorm:"not null"`
	Version     int        `gorm:"not null;default:0"`
}

func (PaymentDTO) TableName() string {
	return "payments"
}

func fromDomain(p *payment.Payment) PaymentDTO {
	var externalRef *string
	if ref := p.ExternalReference(); ref != "" {
		externalRef = &ref
	}

	return PaymentDTO{
		ID:          p.ID().Bytes(),
		OrderID:     p.OrderID().Bytes(),
		Method:      p.Method(),
		Amount:      p.Amount(),
		Status:      p.Status().String(),
		MerchantRef: p.MerchantReference().String(),
		ExternalRef: externalRef,
		PaidAt:      p.PaidAt(),
		CreatedAt:   p.CreatedAt(),
		Version:     p.Version(),
	}
}

func toDomain(dto PaymentDTO) (*payment.Payment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	merchantRef, err := payment.ParseMerchantReference(dto.MerchantRef)
	if err != nil {
		return nil, err
	}
	status, err := payment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var externalRef string
	if dto.ExternalRef != nil {
		externalRef = *dto.ExternalRef
	}

	return payment.RestorePayment(
		id, orderID,
		dto.Amount,
		dto.Method,
		merchantRef,
		status,
		externalRef,
		dto.PaidAt,
		dto.CreatedAt,
		dto.Version,
	)
}
