package commands

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"
)

// CancelSettlementCommandHandler voids a CALCULATED settlement together with
// the items it included.
type CancelSettlementCommandHandler struct {
	uowFactory UoWFactory
}

func NewCancelSettlementCommandHandler(uowFactory UoWFactory) CancelSettlementCommandHandler {
	return CancelSettlementCommandHandler{uowFactory: uowFactory}
}

func (h CancelSettlementCommandHandler) Handle(ctx context.Context, cmd CancelSettlementCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	actor := cmd.Actor()
	if !actor.Is(kernel.RoleAdmin) && !actor.IsParty(partyRole(cmd.Party()), cmd.PartyID()) {
		return errs.NewForbiddenError("cancel settlement")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var err error
	switch cmd.Party() {
	case settlement.PartyOwner:
		err = h.cancelOwner(ctx, uow, cmd)
	case settlement.PartyCourier:
		err = h.cancelCourier(ctx, uow, cmd)
	default:
		err = validateParty(cmd.Party())
	}
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h CancelSettlementCommandHandler) cancelOwner(ctx context.Context, uow UoW, cmd CancelSettlementCommand) error {
	repo := uow.OwnerSettlementRepository()
	s, err := repo.Get(ctx, cmd.SettlementID())
	if err != nil {
		return err
	}
	if !s.OwnerID().IsEqual(cmd.PartyID()) {
		return errs.NewObjectNotFoundError("owner settlement", cmd.SettlementID().String())
	}

	if err = s.Cancel(); err != nil {
		return err
	}

	items, err := repo.ListItems(ctx, s.ID())
	if err != nil {
		return err
	}
	for _, item := range items {
		if err = item.Cancel(); err != nil {
			return err
		}
	}

	if _, err = repo.CancelItems(ctx, s.ID()); err != nil {
		return err
	}

	return repo.Update(ctx, s)
}

func (h CancelSettlementCommandHandler) cancelCourier(ctx context.Context, uow UoW, cmd CancelSettlementCommand) error {
	repo := uow.CourierSettlementRepository()
	s, err := repo.Get(ctx, cmd.SettlementID())
	if err != nil {
		return err
	}
	if !s.CourierID().IsEqual(cmd.PartyID()) {
		return errs.NewObjectNotFoundError("courier settlement", cmd.SettlementID().String())
	}

	if err = s.Cancel(); err != nil {
		return err
	}

	items, err := repo.ListItems(ctx, s.ID())
	if err != nil {
		return err
	}
	for _, item := range items {
		if err = item.Cancel(); err != nil {
			return err
		}
	}

	if _, err = repo.CancelItems(ctx, s.ID()); err != nil {
		return err
	}

	return repo.Update(ctx, s)
}
