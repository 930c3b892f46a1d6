package commands

import (
	"context"
	"errors"
	"log/slog"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
)

// SettlePeriodResult summarizes one batch run.
type SettlePeriodResult struct {
	Backfilled         int
	OwnerSettlements   int
	CourierSettlements int
	Failures           int
}

// SettlePeriodCommandHandler settles a period for every party with pending items.
// It first records courier items for delivered deliveries that lack one.
// A failure for one party is logged and counted; the batch continues.
type SettlePeriodCommandHandler struct {
	uowFactory       UoWFactory
	deliveryRecorder completedDeliveryRecorder
	creator          CreateSettlementCommandHandler
	logger           *slog.Logger
}

func NewSettlePeriodCommandHandler(
	uowFactory UoWFactory,
	deliveryRecorder completedDeliveryRecorder,
	creator CreateSettlementCommandHandler,
	logger *slog.Logger,
) SettlePeriodCommandHandler {
	return SettlePeriodCommandHandler{
		uowFactory:       uowFactory,
		deliveryRecorder: deliveryRecorder,
		creator:          creator,
		logger:           logger.With("component", "settle_period"),
	}
}

func (h SettlePeriodCommandHandler) Handle(ctx context.Context, cmd SettlePeriodCommand) (SettlePeriodResult, error) {
	if err := cmd.Validate(); err != nil {
		return SettlePeriodResult{}, err
	}

	var result SettlePeriodResult
	period := cmd.Period()
	reader := h.uowFactory.Create()

	unsettled, err := reader.DeliveryRepository().ListDeliveredWithoutSettlementItem(ctx, period.Start(), period.EndExclusive())
	if err != nil {
		return result, err
	}
	for _, d := range unsettled {
		recordCmd, cmdErr := NewRecordCompletedDeliveryCommand(d.ID())
		if cmdErr == nil {
			cmdErr = h.deliveryRecorder.Handle(ctx, recordCmd)
		}
		if cmdErr != nil {
			result.Failures++
			h.logger.ErrorContext(ctx, "Failed to backfill courier settlement item",
				"delivery_id", d.ID().String(), "error", cmdErr)
			continue
		}
		result.Backfilled++
	}

	owners, err := reader.OwnerSettlementRepository().ListOwnersWithPendingItems(ctx, period)
	if err != nil {
		return result, err
	}
	result.OwnerSettlements, result.Failures = h.settleParties(ctx, settlement.PartyOwner, owners, period, result.Failures)

	couriers, err := reader.CourierSettlementRepository().ListCouriersWithPendingItems(ctx, period)
	if err != nil {
		return result, err
	}
	result.CourierSettlements, result.Failures = h.settleParties(ctx, settlement.PartyCourier, couriers, period, result.Failures)

	h.logger.InfoContext(ctx, "Settlement period processed",
		"period", period.String(),
		"backfilled", result.Backfilled,
		"owner_settlements", result.OwnerSettlements,
		"courier_settlements", result.CourierSettlements,
		"failures", result.Failures)

	return result, nil
}

func (h SettlePeriodCommandHandler) settleParties(
	ctx context.Context,
	party settlement.Party,
	partyIDs []kernel.UUID,
	period settlement.Period,
	failures int,
) (int, int) {
	created := 0
	for _, partyID := range partyIDs {
		_, err := h.creator.create(ctx, party, partyID, period)
		switch {
		case err == nil:
			created++
		case errors.Is(err, settlement.ErrNothingToSettle):
		default:
			failures++
			h.logger.ErrorContext(ctx, "Failed to create settlement",
				"party", string(party), "party_id", partyID.String(), "error", err)
		}
	}
	return created, failures
}
