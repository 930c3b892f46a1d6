package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
)

// RecordPaidOrderCommandHandler is idempotent on the order id. A concurrent
// duplicate insert is reported by the repository as ErrObjectAlreadyExists and
// treated as success.
type RecordPaidOrderCommandHandler struct {
	uowFactory UoWFactory
	recorder   settlementRecorder
}

func NewRecordPaidOrderCommandHandler(uowFactory UoWFactory, policy services.FeePolicy) RecordPaidOrderCommandHandler {
	return RecordPaidOrderCommandHandler{uowFactory: uowFactory, recorder: newSettlementRecorder(policy)}
}

func (h RecordPaidOrderCommandHandler) Handle(ctx context.Context, cmd RecordPaidOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	p, err := uow.PaymentRepository().GetByOrderID(ctx, o.ID())
	if err != nil {
		return err
	}

	created := false
	if _, created, err = h.recorder.recordOwnerItem(ctx, uow, o, p); err != nil {
		return ignoreDuplicate(err)
	}
	if !created {
		return nil
	}

	return ignoreDuplicate(uow.Commit(ctx))
}

// RecordCompletedDeliveryCommandHandler is idempotent on the delivery id.
// A delivery without a matching fee rule fails with ErrObjectNotFound and is
// picked up again by the next settlement batch.
type RecordCompletedDeliveryCommandHandler struct {
	uowFactory UoWFactory
	recorder   settlementRecorder
}

func NewRecordCompletedDeliveryCommandHandler(uowFactory UoWFactory, policy services.FeePolicy) RecordCompletedDeliveryCommandHandler {
	return RecordCompletedDeliveryCommandHandler{uowFactory: uowFactory, recorder: newSettlementRecorder(policy)}
}

func (h RecordCompletedDeliveryCommandHandler) Handle(ctx context.Context, cmd RecordCompletedDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	created := false
	if _, created, err = h.recorder.recordCourierItem(ctx, uow, d); err != nil {
		return ignoreDuplicate(err)
	}
	if !created {
		return nil
	}

	return ignoreDuplicate(uow.Commit(ctx))
}

func ignoreDuplicate(err error) error {
	if errors.Is(err, errs.ErrObjectAlreadyExists) {
		return nil
	}
	return err
}
