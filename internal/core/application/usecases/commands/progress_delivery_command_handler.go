package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// completedDeliveryRecorder prices a completed delivery for courier settlement.
type completedDeliveryRecorder interface {
	Handle(ctx context.Context, cmd RecordCompletedDeliveryCommand) error
}

// ProgressDeliveryCommandHandler advances a delivery by one courier step under the row lock.
//
// After CompleteDelivery commits, the courier settlement item is recorded in a
// separate transaction; a failure there is logged and left to the settlement batch.
type ProgressDeliveryCommandHandler struct {
	uowFactory UoWFactory
	recorder   completedDeliveryRecorder
	logger     *slog.Logger
}

func NewProgressDeliveryCommandHandler(
	uowFactory UoWFactory,
	recorder completedDeliveryRecorder,
	logger *slog.Logger,
) ProgressDeliveryCommandHandler {
	return ProgressDeliveryCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
		logger:     logger.With("component", "progress_delivery"),
	}
}

// Handle returns the delivery's new status.
func (h ProgressDeliveryCommandHandler) Handle(ctx context.Context, cmd ProgressDeliveryCommand) (delivery.Status, error) {
	if err := cmd.Validate(); err != nil {
		return delivery.Unknown, err
	}
	if !cmd.Actor().Is(kernel.RoleCourier) {
		return delivery.Unknown, errs.NewForbiddenError(cmd.Step().String())
	}

	status, err := h.advance(ctx, cmd)
	if err != nil {
		return delivery.Unknown, err
	}

	if status == delivery.Delivered {
		h.recordEarning(ctx, cmd.DeliveryID())
	}

	return status, nil
}

func (h ProgressDeliveryCommandHandler) advance(ctx context.Context, cmd ProgressDeliveryCommand) (delivery.Status, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return delivery.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()
	d, err := deliveryRepo.GetForUpdate(ctx, cmd.DeliveryID())
	if err != nil {
		return delivery.Unknown, err
	}

	courierID := cmd.Actor().ID()
	now := time.Now()
	switch cmd.Step() {
	case PickUpDelivery:
		err = d.PickUp(courierID, now)
	case StartDelivery:
		err = d.Start(courierID, now)
	case CompleteDelivery:
		err = d.Complete(courierID, now)
	default:
		err = fmt.Errorf("unsupported delivery step %d", int(cmd.Step()))
	}
	if err != nil {
		return delivery.Unknown, err
	}

	if err = deliveryRepo.Update(ctx, d); err != nil {
		return delivery.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return delivery.Unknown, err
	}

	return d.Status(), nil
}

func (h ProgressDeliveryCommandHandler) recordEarning(ctx context.Context, deliveryID kernel.UUID) {
	cmd, err := NewRecordCompletedDeliveryCommand(deliveryID)
	if err == nil {
		err = h.recorder.Handle(ctx, cmd)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to record courier settlement item",
			"delivery_id", deliveryID.String(),
			"error", err)
	}
}
