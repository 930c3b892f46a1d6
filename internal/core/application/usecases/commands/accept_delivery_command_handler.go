package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// AcceptDeliveryCommandHandler locks the delivery row before checking its state.
// When N couriers race to accept, the lock serializes them and exactly one
// finds the delivery ASSIGNED to itself.
type AcceptDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

func NewAcceptDeliveryCommandHandler(uowFactory UoWFactory) AcceptDeliveryCommandHandler {
	return AcceptDeliveryCommandHandler{uowFactory: uowFactory}
}

func (h AcceptDeliveryCommandHandler) Handle(ctx context.Context, cmd AcceptDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !cmd.Actor().Is(kernel.RoleCourier) {
		return errs.NewForbiddenError("accept delivery")
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

	if err = d.Accept(cmd.Actor().ID(), time.Now()); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
