package delivery

import "marketplace/internal/pkg/ddd"

const EventTypeStatusChanged = "DeliveryStatusChanged"

type StatusChangedEvent struct {
	ddd.BaseEvent
	DeliveryID string `json:"delivery_id"`
	OrderID    string `json:"order_id"`
	CourierID  string `json:"courier_id,omitempty"`
	From       string `json:"from"`
	To         string `json:"to"`
}
