package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// PlaceOrderCommandHandler creates an order and its delivery in one transaction.
//
// Example:
//
//	handler := NewPlaceOrderCommandHandler(uowFactory)
//	orderID, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown store
//	}
type PlaceOrderCommandHandler struct {
	uowFactory UoWFactory
}

func NewPlaceOrderCommandHandler(uowFactory UoWFactory) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{uowFactory: uowFactory}
}

// Handle persists the PENDING order and the unassigned delivery and returns the order id.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}
	if err := requireRole(cmd.Actor(), "place order", kernel.RoleBuyer); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.StoreDirectory().OwnerOf(ctx, cmd.StoreID()); err != nil {
		return kernel.UUID{}, err
	}

	o, err := order.NewOrder(
		kernel.NewUUID(),
		cmd.Actor().ID(),
		cmd.StoreID(),
		cmd.Address(),
		cmd.TotalPrice(),
		cmd.DeliveryFee(),
		time.Now(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	d, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), cmd.DistanceMeters(), cmd.EstimatedDuration())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.DeliveryRepository().Add(ctx, d); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return o.ID(), nil
}
