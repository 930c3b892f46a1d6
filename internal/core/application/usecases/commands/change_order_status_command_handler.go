package commands

import (
	"context"
	"fmt"

	"marketplace/internal/core/domain/model/order"
)

// ChangeOrderStatusCommandHandler applies store actions to orders.
// The write is a compare-and-set on the order version, so of two concurrent
// actions on the same order at most one commits.
type ChangeOrderStatusCommandHandler struct {
	uowFactory UoWFactory
}

func NewChangeOrderStatusCommandHandler(uowFactory UoWFactory) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{uowFactory: uowFactory}
}

// Handle returns the order's new status.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (order.Status, error) {
	if err := cmd.Validate(); err != nil {
		return order.Unknown, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return order.Unknown, err
	}

	action := cmd.Action().String()
	if err = requireStoreOwner(ctx, uow.StoreDirectory(), cmd.Actor(), o.StoreID(), action, false); err != nil {
		return order.Unknown, err
	}

	if err = applyOrderAction(o, cmd.Action(), cmd.Reason()); err != nil {
		return order.Unknown, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return order.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Unknown, err
	}

	return o.Status(), nil
}

func applyOrderAction(o *order.Order, action OrderAction, reason string) error {
	switch action {
	case StartCooking:
		return o.StartCooking()
	case MarkCooked:
		return o.MarkCooked()
	case MarkDelivered:
		return o.MarkDelivered()
	case RejectOrder:
		return o.Reject(reason)
	default:
		return fmt.Errorf("unsupported order action %d", int(action))
	}
}
