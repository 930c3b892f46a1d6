package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrCancelPaymentCommandIsNotConstructed = errors.New(
	"CancelPaymentCommand must be created via NewCancelPaymentCommand constructor",
)

// CancelPaymentCommand abandons the buyer's PENDING payment at the provider.
type CancelPaymentCommand struct {
	actor             kernel.Actor
	orderID           kernel.UUID
	externalPaymentID string
	reason            string

	guard guard.ConstructorGuard
}

func NewCancelPaymentCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	externalPaymentID, reason string,
) (CancelPaymentCommand, error) {
	var idErr error
	if strings.TrimSpace(externalPaymentID) == "" {
		idErr = errs.NewValueIsRequiredError("external payment id")
	}
	if err := errors.Join(actor.Validate(), orderID.Validate(), idErr); err != nil {
		return CancelPaymentCommand{}, err
	}

	return CancelPaymentCommand{
		actor:             actor,
		orderID:           orderID,
		externalPaymentID: strings.TrimSpace(externalPaymentID),
		reason:            reason,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

func (c CancelPaymentCommand) Validate() error {
	return c.guard.Validate(ErrCancelPaymentCommandIsNotConstructed)
}

func (c CancelPaymentCommand) Actor() kernel.Actor       { return c.actor }
func (c CancelPaymentCommand) OrderID() kernel.UUID      { return c.orderID }
func (c CancelPaymentCommand) ExternalPaymentID() string { return c.externalPaymentID }
func (c CancelPaymentCommand) Reason() string            { return c.reason }
