package payment

import "marketplace/internal/pkg/ddd"

const (
	EventTypeConfirmed = "PaymentConfirmed"
	EventTypeFailed    = "PaymentFailed"
)

type ConfirmedEvent struct {
	ddd.BaseEvent
	PaymentID         string `json:"payment_id"`
	OrderID           string `json:"order_id"`
	Amount            int64  `json:"amount"`
	Method            string `json:"method"`
	MerchantReference string `json:"merchant_reference"`
	ExternalReference string `json:"external_reference"`
}

type FailedEvent struct {
	ddd.BaseEvent
	PaymentID         string `json:"payment_id"`
	OrderID           string `json:"order_id"`
	MerchantReference string `json:"merchant_reference"`
	Reason            string `json:"reason,omitempty"`
}
