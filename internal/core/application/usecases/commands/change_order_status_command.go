package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// OrderAction is a store-driven step of the order lifecycle.
type OrderAction int

const (
	StartCooking OrderAction = iota + 1
	MarkCooked
	MarkDelivered
	RejectOrder
)

func (a OrderAction) String() string {
	switch a {
	case StartCooking:
		return "start cooking"
	case MarkCooked:
		return "mark cooked"
	case MarkDelivered:
		return "mark delivered"
	case RejectOrder:
		return "reject order"
	default:
		return fmt.Sprintf("order action %d", int(a))
	}
}

// ChangeOrderStatusCommand moves an order one step forward on behalf of its store.
type ChangeOrderStatusCommand struct {
	actor   kernel.Actor
	orderID kernel.UUID
	action  OrderAction
	reason  string

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand builds the command. reason is only kept for RejectOrder.
func NewChangeOrderStatusCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	action OrderAction,
	reason string,
) (ChangeOrderStatusCommand, error) {
	var actionErr error
	if action < StartCooking || action > RejectOrder {
		actionErr = errs.NewValueIsOutOfRangeError("order action", int(action), int(StartCooking), int(RejectOrder))
	}
	if err := errors.Join(actor.Validate(), orderID.Validate(), actionErr); err != nil {
		return ChangeOrderStatusCommand{}, err
	}
	if action != RejectOrder {
		reason = ""
	}

	return ChangeOrderStatusCommand{
		actor:   actor,
		orderID: orderID,
		action:  action,
		reason:  reason,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) Actor() kernel.Actor  { return c.actor }
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }
func (c ChangeOrderStatusCommand) Action() OrderAction  { return c.action }
func (c ChangeOrderStatusCommand) Reason() string       { return c.reason }
