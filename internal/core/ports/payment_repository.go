package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
)

// PaymentRepository defines the persistence contract for payments.
// Order id, merchant reference and external reference are unique.
type PaymentRepository interface {
	Add(ctx context.Context, aggregate *payment.Payment) error

	// Update is a compare-and-set on the payment version, as for orders.
	Update(ctx context.Context, aggregate *payment.Payment) error

	Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error)
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error)
	GetByMerchantReference(ctx context.Context, ref payment.MerchantReference) (*payment.Payment, error)
}
