package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var (
	ErrReopenDeliveryCommandIsNotConstructed = errors.New(
		"ReopenDeliveryCommand must be created via NewReopenDeliveryCommand constructor",
	)
	ErrCancelDeliveryCommandIsNotConstructed = errors.New(
		"CancelDeliveryCommand must be created via NewCancelDeliveryCommand constructor",
	)
)

// ReopenDeliveryCommand clears the courier of a non-terminal delivery so it can be reassigned.
type ReopenDeliveryCommand struct {
	actor      kernel.Actor
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReopenDeliveryCommand(actor kernel.Actor, deliveryID kernel.UUID) (ReopenDeliveryCommand, error) {
	if err := errors.Join(actor.Validate(), deliveryID.Validate()); err != nil {
		return ReopenDeliveryCommand{}, err
	}
	return ReopenDeliveryCommand{actor: actor, deliveryID: deliveryID, guard: guard.NewConstructorGuard()}, nil
}

func (c ReopenDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrReopenDeliveryCommandIsNotConstructed)
}

func (c ReopenDeliveryCommand) Actor() kernel.Actor     { return c.actor }
func (c ReopenDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// CancelDeliveryCommand stops a non-terminal delivery for good.
type CancelDeliveryCommand struct {
	actor      kernel.Actor
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCancelDeliveryCommand(actor kernel.Actor, deliveryID kernel.UUID) (CancelDeliveryCommand, error) {
	if err := errors.Join(actor.Validate(), deliveryID.Validate()); err != nil {
		return CancelDeliveryCommand{}, err
	}
	return CancelDeliveryCommand{actor: actor, deliveryID: deliveryID, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCancelDeliveryCommandIsNotConstructed)
}

func (c CancelDeliveryCommand) Actor() kernel.Actor     { return c.actor }
func (c CancelDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }
