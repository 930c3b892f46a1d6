package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
)

// AssignDeliveryCommandHandler assigns a courier under the delivery row lock.
// Of two concurrent assignments the second sees the first courier and fails.
type AssignDeliveryCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.DeliveryDispatcher
}

func NewAssignDeliveryCommandHandler(uowFactory UoWFactory) AssignDeliveryCommandHandler {
	return AssignDeliveryCommandHandler{
		uowFactory: uowFactory,
		dispatcher: services.NewDeliveryDispatcher(),
	}
}

func (h AssignDeliveryCommandHandler) Handle(ctx context.Context, cmd AssignDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	actor := cmd.Actor()
	if !actor.Is(kernel.RoleAdmin) && !actor.IsParty(kernel.RoleCourier, cmd.CourierID()) {
		return errs.NewForbiddenError("assign delivery")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()
	d, err := deliveryRepo.GetForUpdate(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	c, err := uow.CourierDirectory().Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = h.dispatcher.Dispatch(d, c, time.Now()); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
