package order

import (
	"marketplace/internal/pkg/ddd"
)

const EventTypeStatusChanged = "OrderStatusChanged"

// StatusChangedEvent is raised on every successful status transition.
type StatusChangedEvent struct {
	ddd.BaseEvent
	OrderID string `json:"order_id"`
	StoreID string `json:"store_id"`
	BuyerID string `json:"buyer_id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Reason  string `json:"reason,omitempty"`
}

func newStatusChangedEvent(o *Order, from Status, reason string) StatusChangedEvent {
	return StatusChangedEvent{
		BaseEvent: ddd.NewBaseEvent(EventTypeStatusChanged, o.id.Bytes()),
		OrderID:   o.id.String(),
		StoreID:   o.storeID.String(),
		BuyerID:   o.buyerID.String(),
		From:      from.String(),
		To:        o.status.String(),
		Reason:    reason,
	}
}
