package commands

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// CancelPaymentCommandHandler cancels at the provider first and only then marks
// the payment FAILED. A provider error leaves the payment PENDING.
type CancelPaymentCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PaymentGateway
}

func NewCancelPaymentCommandHandler(uowFactory UoWFactory, gateway ports.PaymentGateway) CancelPaymentCommandHandler {
	return CancelPaymentCommandHandler{uowFactory: uowFactory, gateway: gateway}
}

func (h CancelPaymentCommandHandler) Handle(ctx context.Context, cmd CancelPaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	// Reads before the provider call run outside any transaction.
	reader := h.uowFactory.Create()
	o, err := reader.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if !cmd.Actor().IsParty(kernel.RoleBuyer, o.BuyerID()) {
		return errs.NewForbiddenError("cancel payment")
	}

	p, err := reader.PaymentRepository().GetByOrderID(ctx, o.ID())
	if err != nil {
		return err
	}
	if p.Status() != payment.Pending {
		return errs.NewInvalidStateTransitionError("payment", p.Status().String(), payment.Failed.String())
	}

	if err = h.gateway.CancelPayment(ctx, cmd.ExternalPaymentID(), cmd.Reason()); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	paymentRepo := uow.PaymentRepository()
	p, err = paymentRepo.Get(ctx, p.ID())
	if err != nil {
		return err
	}

	if err = p.Fail(cmd.Reason()); err != nil {
		return err
	}

	if err = paymentRepo.Update(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
