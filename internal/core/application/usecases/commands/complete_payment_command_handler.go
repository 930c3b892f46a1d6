package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/ledger"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

// CompletePaymentResult reports the confirmed order.
type CompletePaymentResult struct {
	OrderID     kernel.UUID
	PaymentID   kernel.UUID
	OrderStatus order.Status
}

// CompletePaymentCommandHandler verifies a provider payment and, in one transaction,
// marks the payment PAID, confirms the order, appends the USER_PAYMENT ledger row
// and records the owner settlement item.
//
// The provider is called before the transaction begins. Any verification failure
// returns before the first write, so the payment stays PENDING.
type CompletePaymentCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PaymentGateway
	recorder   settlementRecorder
	currency   string
	logger     *slog.Logger
}

func NewCompletePaymentCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PaymentGateway,
	policy services.FeePolicy,
	currency string,
	logger *slog.Logger,
) CompletePaymentCommandHandler {
	return CompletePaymentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		recorder:   newSettlementRecorder(policy),
		currency:   currency,
		logger:     logger.With("component", "complete_payment"),
	}
}

func (h CompletePaymentCommandHandler) Handle(ctx context.Context, cmd CompletePaymentCommand) (CompletePaymentResult, error) {
	if err := cmd.Validate(); err != nil {
		return CompletePaymentResult{}, err
	}

	ref, err := payment.ParseMerchantReference(cmd.MerchantReference())
	if err != nil {
		h.logger.ErrorContext(ctx, "Malformed merchant reference",
			"merchant_reference", cmd.MerchantReference(),
			"external_payment_id", cmd.ExternalPaymentID(),
			"error", err)
		return CompletePaymentResult{}, err
	}

	record, err := h.gateway.FetchPayment(ctx, cmd.ExternalPaymentID())
	if err != nil {
		return CompletePaymentResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CompletePaymentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	paymentRepo := uow.PaymentRepository()
	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, ref.OrderID())
	if err != nil {
		return CompletePaymentResult{}, err
	}

	p, err := paymentRepo.GetByMerchantReference(ctx, ref)
	if err != nil {
		return CompletePaymentResult{}, err
	}

	if err = p.Verify(record); err != nil {
		h.logger.WarnContext(ctx, "Payment verification failed",
			"payment_id", p.ID().String(),
			"external_payment_id", cmd.ExternalPaymentID(),
			"error", err)
		return CompletePaymentResult{}, err
	}

	now := time.Now()
	if err = p.Complete(record, now); err != nil {
		return CompletePaymentResult{}, err
	}

	if err = o.Confirm(); err != nil {
		return CompletePaymentResult{}, err
	}

	if err = paymentRepo.Update(ctx, p); err != nil {
		return CompletePaymentResult{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return CompletePaymentResult{}, err
	}

	tx, err := ledger.NewCompletedTransaction(
		ledger.TypeUserPayment,
		ledger.RelatedPayment,
		p.ID(),
		p.Amount(),
		h.currency,
		p.ExternalReference(),
		now,
	)
	if err != nil {
		return CompletePaymentResult{}, err
	}

	if err = uow.LedgerRepository().Add(ctx, tx); err != nil {
		return CompletePaymentResult{}, err
	}

	if _, _, err = h.recorder.recordOwnerItem(ctx, uow, o, p); err != nil {
		return CompletePaymentResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CompletePaymentResult{}, err
	}

	h.logger.InfoContext(ctx, "Payment confirmed",
		"order_id", o.ID().String(),
		"payment_id", p.ID().String(),
		"amount", p.Amount())

	return CompletePaymentResult{OrderID: o.ID(), PaymentID: p.ID(), OrderStatus: o.Status()}, nil
}
