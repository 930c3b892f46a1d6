package services

import (
	"time"

	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/delivery"
)

// DeliveryDispatcher assigns deliveries to couriers from the courier directory.
//
// Business rules:
//   - Delivery and courier must be valid aggregates
//   - Courier must be active
//   - Delivery must be unassigned and not terminal
//
// Example usage:
//
//	dispatcher := services.NewDeliveryDispatcher()
//	if err := dispatcher.Dispatch(d, c, time.Now()); err != nil {
//	    return err
//	}
type DeliveryDispatcher struct{}

// NewDeliveryDispatcher creates a new DeliveryDispatcher instance.
func NewDeliveryDispatcher() DeliveryDispatcher {
	return DeliveryDispatcher{}
}

// Dispatch assigns c to d.
//
// Returns:
//   - error: courier.ErrCourierIsInactive for suspended couriers, or the delivery's
//     InvalidStateTransition error when it cannot take a courier
func (DeliveryDispatcher) Dispatch(d *delivery.Delivery, c *courier.Courier, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}

	if err := c.CanTakeDelivery(); err != nil {
		return err
	}

	return d.Assign(c.ID(), now)
}
