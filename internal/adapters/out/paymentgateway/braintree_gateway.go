package paymentgateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/pkg/errs"

	"github.com/braintree-go/braintree-go"
	"github.com/shopspring/decimal"
)

type BraintreeConfig struct {
	Environment      string
	MerchantID       string
	PublicKey        string
	PrivateKey       string
	CheckoutEndpoint string
	// MinorUnitExponent is the number of decimal places of the currency minor
	// unit: 0 for KRW, 2 for USD.
	MinorUnitExponent int32
}

// transactionAPI is the part of the Braintree transaction gateway used here.
type transactionAPI interface {
	Find(ctx context.Context, txID string) (*braintree.Transaction, error)
	Void(ctx context.Context, txID string) (*braintree.Transaction, error)
}

// BraintreeGateway reads Braintree transactions. The transaction's order id
// carries the merchant reference.
type BraintreeGateway struct {
	transactions     transactionAPI
	checkoutEndpoint string
	exponent         int32
}

func NewBraintreeGateway(cfg BraintreeConfig) *BraintreeGateway {
	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}

	gateway := braintree.New(env, cfg.MerchantID, cfg.PublicKey, cfg.PrivateKey)
	return newBraintreeGateway(gateway.Transaction(), cfg)
}

func newBraintreeGateway(transactions transactionAPI, cfg BraintreeConfig) *BraintreeGateway {
	return &BraintreeGateway{
		transactions:     transactions,
		checkoutEndpoint: cfg.CheckoutEndpoint,
		exponent:         cfg.MinorUnitExponent,
	}
}

func (g *BraintreeGateway) Endpoint() string {
	return g.checkoutEndpoint
}

func (g *BraintreeGateway) FetchPayment(ctx context.Context, externalID string) (payment.ProviderPayment, error) {
	if strings.TrimSpace(externalID) == "" {
		return payment.ProviderPayment{}, errs.NewValueIsRequiredError("external payment id")
	}

	tx, err := g.transactions.Find(ctx, externalID)
	if err != nil {
		return payment.ProviderPayment{}, translateBraintreeError("fetch payment", err)
	}

	amount, err := g.minorUnits(tx.Amount)
	if err != nil {
		return payment.ProviderPayment{}, err
	}

	record := payment.ProviderPayment{
		ExternalID:        tx.Id,
		Status:            providerStatus(tx.Status),
		Amount:            amount,
		MerchantReference: tx.OrderId,
		Method:            string(tx.PaymentInstrumentType),
	}
	if tx.UpdatedAt != nil && record.Status == payment.ProviderStatusPaid {
		paidAt := tx.UpdatedAt.UTC()
		record.PaidAt = &paidAt
	}
	return record, nil
}

// CancelPayment voids the transaction. Braintree keeps no cancel reason.
func (g *BraintreeGateway) CancelPayment(ctx context.Context, externalID, _ string) error {
	if strings.TrimSpace(externalID) == "" {
		return errs.NewValueIsRequiredError("external payment id")
	}
	if _, err := g.transactions.Void(ctx, externalID); err != nil {
		return translateBraintreeError("cancel payment", err)
	}
	return nil
}

func (g *BraintreeGateway) minorUnits(amount *braintree.Decimal) (int64, error) {
	if amount == nil {
		return 0, fmt.Errorf("%w: transaction has no amount", ErrProviderRejected)
	}
	value := decimal.New(amount.Unscaled, -int32(amount.Scale)).Shift(g.exponent)
	if !value.Equal(value.Truncate(0)) {
		return 0, fmt.Errorf("%w: amount %s has more precision than the currency", ErrProviderRejected, value)
	}
	return value.IntPart(), nil
}

func providerStatus(status braintree.TransactionStatus) string {
	switch status {
	case braintree.TransactionStatusSubmittedForSettlement,
		braintree.TransactionStatusSettling,
		braintree.TransactionStatusSettled:
		return payment.ProviderStatusPaid
	default:
		return string(status)
	}
}

// translateBraintreeError keeps API validation errors terminal. Anything else
// is a transport failure.
func translateBraintreeError(op string, err error) error {
	var apiErr *braintree.BraintreeError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s: %v", ErrProviderRejected, op, err)
	}
	return errs.NewGatewayCommunicationError(op, err)
}
