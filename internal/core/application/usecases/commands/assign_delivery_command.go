package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrAssignDeliveryCommandIsNotConstructed = errors.New(
	"AssignDeliveryCommand must be created via NewAssignDeliveryCommand constructor",
)

// AssignDeliveryCommand offers a delivery to a courier.
// Admins assign any courier; a courier may only assign itself.
//
// Example:
//
//	cmd, err := NewAssignDeliveryCommand(actor, deliveryID, courierID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type AssignDeliveryCommand struct {
	actor      kernel.Actor
	deliveryID kernel.UUID
	courierID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignDeliveryCommand(actor kernel.Actor, deliveryID, courierID kernel.UUID) (AssignDeliveryCommand, error) {
	if err := errors.Join(actor.Validate(), deliveryID.Validate(), courierID.Validate()); err != nil {
		return AssignDeliveryCommand{}, err
	}

	return AssignDeliveryCommand{
		actor:      actor,
		deliveryID: deliveryID,
		courierID:  courierID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryCommandIsNotConstructed)
}

func (c AssignDeliveryCommand) Actor() kernel.Actor     { return c.actor }
func (c AssignDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c AssignDeliveryCommand) CourierID() kernel.UUID  { return c.courierID }
