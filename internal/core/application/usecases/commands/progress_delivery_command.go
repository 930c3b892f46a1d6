package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrProgressDeliveryCommandIsNotConstructed = errors.New(
	"ProgressDeliveryCommand must be created via NewProgressDeliveryCommand constructor",
)

// DeliveryStep is a courier-driven step after acceptance.
type DeliveryStep int

const (
	PickUpDelivery DeliveryStep = iota + 1
	StartDelivery
	CompleteDelivery
)

func (s DeliveryStep) String() string {
	switch s {
	case PickUpDelivery:
		return "pick up delivery"
	case StartDelivery:
		return "start delivery"
	case CompleteDelivery:
		return "complete delivery"
	default:
		return fmt.Sprintf("delivery step %d", int(s))
	}
}

type ProgressDeliveryCommand struct {
	actor      kernel.Actor
	deliveryID kernel.UUID
	step       DeliveryStep

	guard guard.ConstructorGuard
}

func NewProgressDeliveryCommand(actor kernel.Actor, deliveryID kernel.UUID, step DeliveryStep) (ProgressDeliveryCommand, error) {
	var stepErr error
	if step < PickUpDelivery || step > CompleteDelivery {
		stepErr = errs.NewValueIsOutOfRangeError("delivery step", int(step), int(PickUpDelivery), int(CompleteDelivery))
	}
	if err := errors.Join(actor.Validate(), deliveryID.Validate(), stepErr); err != nil {
		return ProgressDeliveryCommand{}, err
	}

	return ProgressDeliveryCommand{
		actor:      actor,
		deliveryID: deliveryID,
		step:       step,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ProgressDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrProgressDeliveryCommandIsNotConstructed)
}

func (c ProgressDeliveryCommand) Actor() kernel.Actor     { return c.actor }
func (c ProgressDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c ProgressDeliveryCommand) Step() DeliveryStep      { return c.step }
