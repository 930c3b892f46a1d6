package commands

import (
	"errors"
	"strings"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrCompletePaymentCommandIsNotConstructed = errors.New(
	"CompletePaymentCommand must be created via NewCompletePaymentCommand constructor",
)

// CompletePaymentCommand asks the core to verify a provider payment and confirm the order.
// The merchant reference is parsed by the handler so malformed values can be reported.
type CompletePaymentCommand struct {
	externalPaymentID string
	merchantReference string

	guard guard.ConstructorGuard
}

func NewCompletePaymentCommand(externalPaymentID, merchantReference string) (CompletePaymentCommand, error) {
	var errList []error
	if strings.TrimSpace(externalPaymentID) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("external payment id"))
	}
	if strings.TrimSpace(merchantReference) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("merchant reference"))
	}
	if err := errors.Join(errList...); err != nil {
		return CompletePaymentCommand{}, err
	}

	return CompletePaymentCommand{
		externalPaymentID: strings.TrimSpace(externalPaymentID),
		merchantReference: strings.TrimSpace(merchantReference),
		guard:             guard.NewConstructorGuard(),
	}, nil
}

func (c CompletePaymentCommand) Validate() error {
	return c.guard.Validate(ErrCompletePaymentCommandIsNotConstructed)
}

func (c CompletePaymentCommand) ExternalPaymentID() string { return c.externalPaymentID }
func (c CompletePaymentCommand) MerchantReference() string { return c.merchantReference }
