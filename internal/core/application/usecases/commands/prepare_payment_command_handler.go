package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// PreparePaymentCommandHandler creates the PENDING payment of an order.
// It never contacts the provider. Retrying with the same amount returns
// the reference issued the first time.
type PreparePaymentCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PaymentGateway
}

func NewPreparePaymentCommandHandler(uowFactory UoWFactory, gateway ports.PaymentGateway) PreparePaymentCommandHandler {
	return PreparePaymentCommandHandler{uowFactory: uowFactory, gateway: gateway}
}

func (h PreparePaymentCommandHandler) Handle(ctx context.Context, cmd PreparePaymentCommand) (PreparePaymentResult, error) {
	if err := cmd.Validate(); err != nil {
		return PreparePaymentResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return PreparePaymentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return PreparePaymentResult{}, err
	}
	if !cmd.Actor().IsParty(kernel.RoleBuyer, o.BuyerID()) {
		return PreparePaymentResult{}, errs.NewForbiddenError("prepare payment")
	}

	paymentRepo := uow.PaymentRepository()
	existing, err := paymentRepo.GetByOrderID(ctx, o.ID())
	switch {
	case err == nil:
		if err = reusablePayment(existing, cmd.Amount()); err != nil {
			return PreparePaymentResult{}, err
		}
		return h.result(existing, cmd.Buyer()), nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return PreparePaymentResult{}, err
	}

	if o.Status() != order.Pending {
		return PreparePaymentResult{}, errs.NewInvalidStateTransitionError("order", o.Status().String(), order.Confirmed.String())
	}
	if cmd.Amount() != o.PayableAmount() {
		return PreparePaymentResult{}, fmt.Errorf("%w: requested %d, payable %d", payment.ErrAmountMismatch, cmd.Amount(), o.PayableAmount())
	}

	ref, err := payment.NewMerchantReference(o.ID())
	if err != nil {
		return PreparePaymentResult{}, err
	}

	p, err := payment.NewPayment(kernel.NewUUID(), o.ID(), cmd.Amount(), cmd.Method(), ref, time.Now())
	if err != nil {
		return PreparePaymentResult{}, err
	}

	if err = paymentRepo.Add(ctx, p); err != nil {
		return PreparePaymentResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PreparePaymentResult{}, err
	}

	return h.result(p, cmd.Buyer()), nil
}

func (h PreparePaymentCommandHandler) result(p *payment.Payment, buyer BuyerInfo) PreparePaymentResult {
	return PreparePaymentResult{
		MerchantReference: p.MerchantReference().String(),
		Amount:            p.Amount(),
		BuyerName:         buyer.Name,
		BuyerEmail:        buyer.Email,
		BuyerTel:          buyer.Tel,
		ProviderEndpoint:  h.gateway.Endpoint(),
	}
}

func reusablePayment(p *payment.Payment, amount int64) error {
	switch p.Status() {
	case payment.Paid:
		return payment.ErrAlreadyPaid
	case payment.Pending:
		if p.Amount() != amount {
			return fmt.Errorf("%w: requested %d, pending payment is %d", payment.ErrAmountMismatch, amount, p.Amount())
		}
		return nil
	default:
		return errs.NewInvalidStateTransitionError("payment", p.Status().String(), payment.Pending.String())
	}
}
