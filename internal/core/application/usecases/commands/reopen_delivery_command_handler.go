package commands

import (
	"context"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ReopenDeliveryCommandHandler is an admin operation.
type ReopenDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

func NewReopenDeliveryCommandHandler(uowFactory UoWFactory) ReopenDeliveryCommandHandler {
	return ReopenDeliveryCommandHandler{uowFactory: uowFactory}
}

func (h ReopenDeliveryCommandHandler) Handle(ctx context.Context, cmd ReopenDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := requireRole(cmd.Actor(), "reopen delivery", kernel.RoleAdmin); err != nil {
		return err
	}

	return withLockedDelivery(ctx, h.uowFactory, cmd.DeliveryID(), func(_ UoW, d *delivery.Delivery) error {
		return d.Reopen()
	})
}

// CancelDeliveryCommandHandler lets an admin or the store owner of the order cancel.
type CancelDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

func NewCancelDeliveryCommandHandler(uowFactory UoWFactory) CancelDeliveryCommandHandler {
	return CancelDeliveryCommandHandler{uowFactory: uowFactory}
}

func (h CancelDeliveryCommandHandler) Handle(ctx context.Context, cmd CancelDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !cmd.Actor().Is(kernel.RoleAdmin) && !cmd.Actor().Is(kernel.RoleStoreOwner) {
		return errs.NewForbiddenError("cancel delivery")
	}

	return withLockedDelivery(ctx, h.uowFactory, cmd.DeliveryID(), func(uow UoW, d *delivery.Delivery) error {
		o, err := uow.OrderRepository().Get(ctx, d.OrderID())
		if err != nil {
			return err
		}
		if err = requireStoreOwner(ctx, uow.StoreDirectory(), cmd.Actor(), o.StoreID(), "cancel delivery", true); err != nil {
			return err
		}
		return d.Cancel()
	})
}

// withLockedDelivery loads the delivery under row lock, applies change and commits.
func withLockedDelivery(
	ctx context.Context,
	uowFactory UoWFactory,
	deliveryID kernel.UUID,
	change func(uow UoW, d *delivery.Delivery) error,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()
	d, err := deliveryRepo.GetForUpdate(ctx, deliveryID)
	if err != nil {
		return err
	}

	if err = change(uow, d); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
