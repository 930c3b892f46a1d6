package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var (
	ErrAddFeeRuleCommandIsNotConstructed = errors.New(
		"AddFeeRuleCommand must be created via NewAddFeeRuleCommand constructor",
	)
	ErrUpdateFeeRuleCommandIsNotConstructed = errors.New(
		"UpdateFeeRuleCommand must be created via NewUpdateFeeRuleCommand constructor",
	)
	ErrDeactivateFeeRuleCommandIsNotConstructed = errors.New(
		"DeactivateFeeRuleCommand must be created via NewDeactivateFeeRuleCommand constructor",
	)
)

// FeeRuleTerms is the bucket [MinMeters, MaxMeters) and its fees.
// A nil MaxMeters leaves the bucket unbounded.
type FeeRuleTerms struct {
	MinMeters int
	MaxMeters *int
	BaseFee   int64
	PerKmFee  int64
}

// AddFeeRuleCommand adds an active bucket to a courier's fee schedule.
//
// Example:
//
//	maxMeters := 3000
//	cmd, err := NewAddFeeRuleCommand(admin, courierID, FeeRuleTerms{
//	    MinMeters: 0, MaxMeters: &maxMeters, BaseFee: 3000, PerKmFee: 500,
//	})
//	ruleID, err := handler.Handle(ctx, cmd)
type AddFeeRuleCommand struct {
	actor     kernel.Actor
	courierID kernel.UUID
	terms     FeeRuleTerms

	guard guard.ConstructorGuard
}

func NewAddFeeRuleCommand(actor kernel.Actor, courierID kernel.UUID, terms FeeRuleTerms) (AddFeeRuleCommand, error) {
	if err := errors.Join(actor.Validate(), courierID.Validate()); err != nil {
		return AddFeeRuleCommand{}, err
	}

	return AddFeeRuleCommand{
		actor:     actor,
		courierID: courierID,
		terms:     terms,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AddFeeRuleCommand) Validate() error {
	return c.guard.Validate(ErrAddFeeRuleCommandIsNotConstructed)
}

func (c AddFeeRuleCommand) Actor() kernel.Actor    { return c.actor }
func (c AddFeeRuleCommand) CourierID() kernel.UUID { return c.courierID }
func (c AddFeeRuleCommand) Terms() FeeRuleTerms    { return c.terms }

// UpdateFeeRuleCommand replaces the terms of an existing rule.
type UpdateFeeRuleCommand struct {
	actor  kernel.Actor
	ruleID kernel.UUID
	terms  FeeRuleTerms

	guard guard.ConstructorGuard
}

func NewUpdateFeeRuleCommand(actor kernel.Actor, ruleID kernel.UUID, terms FeeRuleTerms) (UpdateFeeRuleCommand, error) {
	if err := errors.Join(actor.Validate(), ruleID.Validate()); err != nil {
		return UpdateFeeRuleCommand{}, err
	}

	return UpdateFeeRuleCommand{
		actor:  actor,
		ruleID: ruleID,
		terms:  terms,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateFeeRuleCommand) Validate() error {
	return c.guard.Validate(ErrUpdateFeeRuleCommandIsNotConstructed)
}

func (c UpdateFeeRuleCommand) Actor() kernel.Actor { return c.actor }
func (c UpdateFeeRuleCommand) RuleID() kernel.UUID { return c.ruleID }
func (c UpdateFeeRuleCommand) Terms() FeeRuleTerms { return c.terms }

type DeactivateFeeRuleCommand struct {
	actor  kernel.Actor
	ruleID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeactivateFeeRuleCommand(actor kernel.Actor, ruleID kernel.UUID) (DeactivateFeeRuleCommand, error) {
	if err := errors.Join(actor.Validate(), ruleID.Validate()); err != nil {
		return DeactivateFeeRuleCommand{}, err
	}

	return DeactivateFeeRuleCommand{
		actor:  actor,
		ruleID: ruleID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c DeactivateFeeRuleCommand) Validate() error {
	return c.guard.Validate(ErrDeactivateFeeRuleCommandIsNotConstructed)
}

func (c DeactivateFeeRuleCommand) Actor() kernel.Actor { return c.actor }
func (c DeactivateFeeRuleCommand) RuleID() kernel.UUID { return c.ruleID }
