package ports

import (
	"context"

	"marketplace/internal/core/domain/model/payment"
)

// PaymentGateway is the external payment provider.
// Transport failures are returned as errs.GatewayCommunicationError.
type PaymentGateway interface {
	FetchPayment(ctx context.Context, externalID string) (payment.ProviderPayment, error)
	CancelPayment(ctx context.Context, externalID, reason string) error
	// Endpoint is handed to clients so they can open the provider checkout.
	Endpoint() string
}
