package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

const defaultSettlementLockTTL = 30 * time.Second

// CreateSettlementCommandHandler batches pending items into a CALCULATED settlement.
//
// Two guards keep an item out of two settlements: a per-party advisory lock
// serializes batch creation across instances, and items are claimed with a
// compare-and-set on their PENDING status. If fewer items are claimed than were
// selected, the transaction is rolled back with ErrItemsAlreadyClaimed.
type CreateSettlementCommandHandler struct {
	uowFactory UoWFactory
	locker     ports.Locker
	lockTTL    time.Duration
	logger     *slog.Logger
}

func NewCreateSettlementCommandHandler(
	uowFactory UoWFactory,
	locker ports.Locker,
	lockTTL time.Duration,
	logger *slog.Logger,
) CreateSettlementCommandHandler {
	if lockTTL <= 0 {
		lockTTL = defaultSettlementLockTTL
	}
	return CreateSettlementCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		lockTTL:    lockTTL,
		logger:     logger.With("component", "create_settlement"),
	}
}

// Handle returns the id of the new settlement.
func (h CreateSettlementCommandHandler) Handle(ctx context.Context, cmd CreateSettlementCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	actor := cmd.Actor()
	if !actor.Is(kernel.RoleAdmin) && !actor.IsParty(partyRole(cmd.Party()), cmd.PartyID()) {
		return kernel.UUID{}, errs.NewForbiddenError("create settlement")
	}

	return h.create(ctx, cmd.Party(), cmd.PartyID(), cmd.Period())
}

func (h CreateSettlementCommandHandler) create(
	ctx context.Context,
	party settlement.Party,
	partyID kernel.UUID,
	period settlement.Period,
) (kernel.UUID, error) {
	key := settlementLockKey(party, partyID)
	unlock, err := h.locker.Lock(ctx, key, h.lockTTL)
	if err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		if unlockErr := unlock(context.WithoutCancel(ctx)); unlockErr != nil {
			h.logger.WarnContext(ctx, "Failed to release settlement lock", "key", key, "error", unlockErr)
		}
	}()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var id kernel.UUID
	switch party {
	case settlement.PartyOwner:
		id, err = h.createOwnerSettlement(ctx, uow.OwnerSettlementRepository(), partyID, period)
	case settlement.PartyCourier:
		id, err = h.createCourierSettlement(ctx, uow.CourierSettlementRepository(), partyID, period)
	default:
		err = validateParty(party)
	}
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	h.logger.InfoContext(ctx, "Settlement created",
		"settlement_id", id.String(),
		"party", string(party),
		"party_id", partyID.String(),
		"period", period.String())

	return id, nil
}

func (h CreateSettlementCommandHandler) createOwnerSettlement(
	ctx context.Context,
	repo ports.OwnerSettlementRepository,
	ownerID kernel.UUID,
	period settlement.Period,
) (kernel.UUID, error) {
	items, err := repo.ListPendingItems(ctx, ownerID, period)
	if err != nil {
		return kernel.UUID{}, err
	}

	s, err := settlement.NewOwnerSettlement(kernel.NewUUID(), ownerID, period, items, time.Now())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = repo.Add(ctx, s); err != nil {
		return kernel.UUID{}, err
	}

	ids := make([]kernel.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID())
	}

	claimed, err := repo.ClaimItems(ctx, s.ID(), ids)
	if err != nil {
		return kernel.UUID{}, err
	}
	if claimed != int64(len(ids)) {
		return kernel.UUID{}, fmt.Errorf("%w: claimed %d of %d", settlement.ErrItemsAlreadyClaimed, claimed, len(ids))
	}

	return s.ID(), nil
}

func (h CreateSettlementCommandHandler) createCourierSettlement(
	ctx context.Context,
	repo ports.CourierSettlementRepository,
	courierID kernel.UUID,
	period settlement.Period,
) (kernel.UUID, error) {
	items, err := repo.ListPendingItems(ctx, courierID, period)
	if err != nil {
		return kernel.UUID{}, err
	}

	s, err := settlement.NewCourierSettlement(kernel.NewUUID(), courierID, period, items, time.Now())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = repo.Add(ctx, s); err != nil {
		return kernel.UUID{}, err
	}

	ids := make([]kernel.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID())
	}

	claimed, err := repo.ClaimItems(ctx, s.ID(), ids)
	if err != nil {
		return kernel.UUID{}, err
	}
	if claimed != int64(len(ids)) {
		return kernel.UUID{}, fmt.Errorf("%w: claimed %d of %d", settlement.ErrItemsAlreadyClaimed, claimed, len(ids))
	}

	return s.ID(), nil
}

func settlementLockKey(party settlement.Party, partyID kernel.UUID) string {
	switch party {
	case settlement.PartyCourier:
		return "settlement:courier:" + partyID.String()
	default:
		return "settlement:owner:" + partyID.String()
	}
}
