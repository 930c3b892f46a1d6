package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/ledger"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"
)

// PayoutSettlementCommandHandler marks a settlement and its items PAID and appends
// the payout ledger row. Paying an already PAID settlement is a no-op.
type PayoutSettlementCommandHandler struct {
	uowFactory UoWFactory
	currency   string
}

func NewPayoutSettlementCommandHandler(uowFactory UoWFactory, currency string) PayoutSettlementCommandHandler {
	return PayoutSettlementCommandHandler{uowFactory: uowFactory, currency: currency}
}

// Handle reports whether this call performed the payout.
func (h PayoutSettlementCommandHandler) Handle(ctx context.Context, cmd PayoutSettlementCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}
	if err := requireRole(cmd.Actor(), "payout settlement", kernel.RoleAdmin); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var (
		paid bool
		err  error
	)
	switch cmd.Party() {
	case settlement.PartyOwner:
		paid, err = h.payoutOwner(ctx, uow, cmd)
	case settlement.PartyCourier:
		paid, err = h.payoutCourier(ctx, uow, cmd)
	default:
		err = validateParty(cmd.Party())
	}
	if err != nil || !paid {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (h PayoutSettlementCommandHandler) payoutOwner(ctx context.Context, uow UoW, cmd PayoutSettlementCommand) (bool, error) {
	repo := uow.OwnerSettlementRepository()
	s, err := repo.Get(ctx, cmd.SettlementID())
	if err != nil {
		return false, err
	}
	if !s.OwnerID().IsEqual(cmd.PartyID()) {
		return false, errs.NewObjectNotFoundError("owner settlement", cmd.SettlementID().String())
	}

	now := time.Now()
	paid, err := s.MarkPaid(cmd.ExternalTransferID(), now)
	if err != nil || !paid {
		return false, err
	}

	items, err := repo.ListItems(ctx, s.ID())
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if err = item.MarkPaid(); err != nil {
			return false, err
		}
	}

	updated, err := repo.MarkItemsPaid(ctx, s.ID())
	if err != nil {
		return false, err
	}
	if updated != int64(len(items)) {
		return false, errs.NewConcurrentModificationError("owner settlement items", s.ID().String())
	}

	if err = repo.Update(ctx, s); err != nil {
		return false, err
	}

	return true, h.appendPayout(ctx, uow, ledger.TypeStorePayout, ledger.RelatedOwnerSettlement, s.ID(), s.Totals().Net, cmd.ExternalTransferID(), now)
}

func (h PayoutSettlementCommandHandler) payoutCourier(ctx context.Context, uow UoW, cmd PayoutSettlementCommand) (bool, error) {
	repo := uow.CourierSettlementRepository()
	s, err := repo.Get(ctx, cmd.SettlementID())
	if err != nil {
		return false, err
	}
	if !s.CourierID().IsEqual(cmd.PartyID()) {
		return false, errs.NewObjectNotFoundError("courier settlement", cmd.SettlementID().String())
	}

	now := time.Now()
	paid, err := s.MarkPaid(cmd.ExternalTransferID(), now)
	if err != nil || !paid {
		return false, err
	}

	items, err := repo.ListItems(ctx, s.ID())
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if err = item.MarkPaid(); err != nil {
			return false, err
		}
	}

	updated, err := repo.MarkItemsPaid(ctx, s.ID())
	if err != nil {
		return false, err
	}
	if updated != int64(len(items)) {
		return false, errs.NewConcurrentModificationError("courier settlement items", s.ID().String())
	}

	if err = repo.Update(ctx, s); err != nil {
		return false, err
	}

	return true, h.appendPayout(ctx, uow, ledger.TypeCourierPayout, ledger.RelatedCourierSettlement, s.ID(), s.TotalEarning(), cmd.ExternalTransferID(), now)
}

func (h PayoutSettlementCommandHandler) appendPayout(
	ctx context.Context,
	uow UoW,
	txType ledger.Type,
	relatedType ledger.RelatedType,
	settlementID kernel.UUID,
	amount int64,
	externalTransferID string,
	now time.Time,
) error {
	tx, err := ledger.NewCompletedTransaction(txType, relatedType, settlementID, amount, h.currency, externalTransferID, now)
	if err != nil {
		return err
	}
	return uow.LedgerRepository().Add(ctx, tx)
}
