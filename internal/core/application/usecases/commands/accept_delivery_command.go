package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrAcceptDeliveryCommandIsNotConstructed = errors.New(
	"AcceptDeliveryCommand must be created via NewAcceptDeliveryCommand constructor",
)

// AcceptDeliveryCommand is the assigned courier confirming it takes the delivery.
type AcceptDeliveryCommand struct {
	actor      kernel.Actor
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptDeliveryCommand(actor kernel.Actor, deliveryID kernel.UUID) (AcceptDeliveryCommand, error) {
	if err := errors.Join(actor.Validate(), deliveryID.Validate()); err != nil {
		return AcceptDeliveryCommand{}, err
	}

	return AcceptDeliveryCommand{
		actor:      actor,
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AcceptDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAcceptDeliveryCommandIsNotConstructed)
}

func (c AcceptDeliveryCommand) Actor() kernel.Actor     { return c.actor }
func (c AcceptDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }
