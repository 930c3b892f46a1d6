package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrCreateSettlementCommandIsNotConstructed = errors.New(
		"CreateSettlementCommand must be created via NewCreateSettlementCommand constructor",
	)
	ErrPayoutSettlementCommandIsNotConstructed = errors.New(
		"PayoutSettlementCommand must be created via NewPayoutSettlementCommand constructor",
	)
	ErrCancelSettlementCommandIsNotConstructed = errors.New(
		"CancelSettlementCommand must be created via NewCancelSettlementCommand constructor",
	)
	ErrSettlePeriodCommandIsNotConstructed = errors.New(
		"SettlePeriodCommand must be created via NewSettlePeriodCommand constructor",
	)
)

func validateParty(party settlement.Party) error {
	switch party {
	case settlement.PartyOwner, settlement.PartyCourier:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("party", fmt.Errorf("%q is not a settlement party", string(party)))
	}
}

// partyRole is the actor role that owns settlements of party.
func partyRole(party settlement.Party) kernel.Role {
	if party == settlement.PartyCourier {
		return kernel.RoleCourier
	}
	return kernel.RoleStoreOwner
}

// CreateSettlementCommand batches a party's PENDING items paid or delivered within a period.
//
// Example:
//
//	period, _ := settlement.NewPeriod(start, end)
//	cmd, err := NewCreateSettlementCommand(actor, settlement.PartyOwner, ownerID, period)
//	settlementID, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, settlement.ErrNothingToSettle) {
//	    // nothing pending in the period
//	}
type CreateSettlementCommand struct {
	actor   kernel.Actor
	party   settlement.Party
	partyID kernel.UUID
	period  settlement.Period

	guard guard.ConstructorGuard
}

func NewCreateSettlementCommand(
	actor kernel.Actor,
	party settlement.Party,
	partyID kernel.UUID,
	period settlement.Period,
) (CreateSettlementCommand, error) {
	var periodErr error
	if period.Start().IsZero() {
		periodErr = errs.NewValueIsRequiredError("period")
	}
	if err := errors.Join(actor.Validate(), validateParty(party), partyID.Validate(), periodErr); err != nil {
		return CreateSettlementCommand{}, err
	}

	return CreateSettlementCommand{
		actor:   actor,
		party:   party,
		partyID: partyID,
		period:  period,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CreateSettlementCommand) Validate() error {
	return c.guard.Validate(ErrCreateSettlementCommandIsNotConstructed)
}

func (c CreateSettlementCommand) Actor() kernel.Actor       { return c.actor }
func (c CreateSettlementCommand) Party() settlement.Party   { return c.party }
func (c CreateSettlementCommand) PartyID() kernel.UUID      { return c.partyID }
func (c CreateSettlementCommand) Period() settlement.Period { return c.period }

// PayoutSettlementCommand records the bank transfer of a CALCULATED settlement.
type PayoutSettlementCommand struct {
	actor              kernel.Actor
	party              settlement.Party
	partyID            kernel.UUID
	settlementID       kernel.UUID
	externalTransferID string

	guard guard.ConstructorGuard
}

func NewPayoutSettlementCommand(
	actor kernel.Actor,
	party settlement.Party,
	partyID, settlementID kernel.UUID,
	externalTransferID string,
) (PayoutSettlementCommand, error) {
	var transferErr error
	if strings.TrimSpace(externalTransferID) == "" {
		transferErr = errs.NewValueIsRequiredError("external transfer id")
	}
	if err := errors.Join(
		actor.Validate(),
		validateParty(party),
		partyID.Validate(),
		settlementID.Validate(),
		transferErr,
	); err != nil {
		return PayoutSettlementCommand{}, err
	}

	return PayoutSettlementCommand{
		actor:              actor,
		party:              party,
		partyID:            partyID,
		settlementID:       settlementID,
		externalTransferID: strings.TrimSpace(externalTransferID),
		guard:              guard.NewConstructorGuard(),
	}, nil
}

func (c PayoutSettlementCommand) Validate() error {
	return c.guard.Validate(ErrPayoutSettlementCommandIsNotConstructed)
}

func (c PayoutSettlementCommand) Actor() kernel.Actor        { return c.actor }
func (c PayoutSettlementCommand) Party() settlement.Party    { return c.party }
func (c PayoutSettlementCommand) PartyID() kernel.UUID       { return c.partyID }
func (c PayoutSettlementCommand) SettlementID() kernel.UUID  { return c.settlementID }
func (c PayoutSettlementCommand) ExternalTransferID() string { return c.externalTransferID }

// CancelSettlementCommand voids a CALCULATED settlement and cancels its items.
type CancelSettlementCommand struct {
	actor        kernel.Actor
	party        settlement.Party
	partyID      kernel.UUID
	settlementID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCancelSettlementCommand(
	actor kernel.Actor,
	party settlement.Party,
	partyID, settlementID kernel.UUID,
) (CancelSettlementCommand, error) {
	if err := errors.Join(actor.Validate(), validateParty(party), partyID.Validate(), settlementID.Validate()); err != nil {
		return CancelSettlementCommand{}, err
	}

	return CancelSettlementCommand{
		actor:        actor,
		party:        party,
		partyID:      partyID,
		settlementID: settlementID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c CancelSettlementCommand) Validate() error {
	return c.guard.Validate(ErrCancelSettlementCommandIsNotConstructed)
}

func (c CancelSettlementCommand) Actor() kernel.Actor       { return c.actor }
func (c CancelSettlementCommand) Party() settlement.Party   { return c.party }
func (c CancelSettlementCommand) PartyID() kernel.UUID      { return c.partyID }
func (c CancelSettlementCommand) SettlementID() kernel.UUID { return c.settlementID }

// SettlePeriodCommand settles every owner and courier with pending items in a period.
// It is issued by the scheduler or by operations staff.
type SettlePeriodCommand struct {
	period settlement.Period

	guard guard.ConstructorGuard
}

func NewSettlePeriodCommand(period settlement.Period) (SettlePeriodCommand, error) {
	if period.Start().IsZero() {
		return SettlePeriodCommand{}, errs.NewValueIsRequiredError("period")
	}
	return SettlePeriodCommand{period: period, guard: guard.NewConstructorGuard()}, nil
}

// NewSettlePeriodCommandForPreviousDay settles the UTC day before now.
func NewSettlePeriodCommandForPreviousDay(now time.Time) (SettlePeriodCommand, error) {
	day := now.UTC().AddDate(0, 0, -1)
	period, err := settlement.NewPeriod(day, day)
	if err != nil {
		return SettlePeriodCommand{}, err
	}
	return NewSettlePeriodCommand(period)
}

func (c SettlePeriodCommand) Validate() error {
	return c.guard.Validate(ErrSettlePeriodCommandIsNotConstructed)
}

func (c SettlePeriodCommand) Period() settlement.Period { return c.period }
