package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrPreparePaymentCommandIsNotConstructed = errors.New(
	"PreparePaymentCommand must be created via NewPreparePaymentCommand constructor",
)

// BuyerInfo is echoed back to the client for the provider checkout form.
type BuyerInfo struct {
	Name  string
	Email string
	Tel   string
}

// PreparePaymentCommand registers the buyer's intent to pay for an order.
type PreparePaymentCommand struct {
	actor   kernel.Actor
	orderID kernel.UUID
	amount  int64
	method  string
	buyer   BuyerInfo

	guard guard.ConstructorGuard
}

func NewPreparePaymentCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	amount int64,
	method string,
	buyer BuyerInfo,
) (PreparePaymentCommand, error) {
	var errList []error
	errList = append(errList, actor.Validate(), orderID.Validate())
	if amount <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("amount", amount, 1, "unbounded"))
	}
	if strings.TrimSpace(method) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("method"))
	}
	if err := errors.Join(errList...); err != nil {
		return PreparePaymentCommand{}, err
	}

	return PreparePaymentCommand{
		actor:   actor,
		orderID: orderID,
		amount:  amount,
		method:  strings.TrimSpace(method),
		buyer:   buyer,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c PreparePaymentCommand) Validate() error {
	return c.guard.Validate(ErrPreparePaymentCommandIsNotConstructed)
}

func (c PreparePaymentCommand) Actor() kernel.Actor  { return c.actor }
func (c PreparePaymentCommand) OrderID() kernel.UUID { return c.orderID }
func (c PreparePaymentCommand) Amount() int64        { return c.amount }
func (c PreparePaymentCommand) Method() string       { return c.method }
func (c PreparePaymentCommand) Buyer() BuyerInfo     { return c.buyer }

// PreparePaymentResult is what the client needs to open the provider checkout.
type PreparePaymentResult struct {
	MerchantReference string
	Amount            int64
	BuyerName         string
	BuyerEmail        string
	BuyerTel          string
	ProviderEndpoint  string
}
