package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/ddd"
	"marketplace/internal/pkg/errs"
)

// ProviderStatusPaid is the provider status that confirms a captured payment.
const ProviderStatusPaid = "paid"

var (
	ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment constructor")

	// ErrVerificationFailed is the parent of every terminal verification failure.
	ErrVerificationFailed  = errors.New("payment verification failed")
	ErrNotPaid             = fmt.Errorf("%w: provider does not report the payment as paid", ErrVerificationFailed)
	ErrAmountMismatch      = fmt.Errorf("%w: amount mismatch", ErrVerificationFailed)
	ErrMerchantRefMismatch = fmt.Errorf("%w: merchant reference mismatch", ErrVerificationFailed)
	ErrAlreadyPaid         = fmt.Errorf("%w: payment is already paid", ErrVerificationFailed)
)

// ProviderPayment is the provider's view of a payment, as returned by the payment gateway.
type ProviderPayment struct {
	ExternalID        string
	Status            string
	Amount            int64
	MerchantReference string
	Method            string
	PaidAt            *time.Time
}

// Payment records the buyer's payment for exactly one order.
// The amount is fixed at creation.
type Payment struct {
	ddd.BaseAggregate

	id          kernel.UUID
	orderID     kernel.UUID
	method      string
	amount      int64
	status      Status
	merchantRef MerchantReference
	externalRef string
	paidAt      *time.Time
	createdAt   time.Time

	isConstructed bool
}

// NewPayment creates a PENDING payment for the order.
func NewPayment(
	id, orderID kernel.UUID,
	amount int64,
	method string,
	merchantRef MerchantReference,
	createdAt time.Time,
) (*Payment, error) {
	p := &Payment{
		method:        strings.TrimSpace(method),
		status:        Pending,
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		p.setIDs(id, orderID),
		p.setAmount(amount),
		p.setMerchantRef(merchantRef, orderID),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestorePayment rebuilds a payment from persistence.
func RestorePayment(
	id, orderID kernel.UUID,
	amount int64,
	method string,
	merchantRef MerchantReference,
	status Status,
	externalRef string,
	paidAt *time.Time,
	createdAt time.Time,
	version int,
) (*Payment, error) {
	p := &Payment{
		method:        method,
		externalRef:   externalRef,
		paidAt:        paidAt,
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		p.setIDs(id, orderID),
		p.setAmount(amount),
		p.setMerchantRef(merchantRef, orderID),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	p.status = status
	p.SetVersion(version)
	return p, nil
}

func (p *Payment) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPaymentIsNotConstructed
	}
	return nil
}

func (p *Payment) ID() kernel.UUID                      { return p.id }
func (p *Payment) OrderID() kernel.UUID                 { return p.orderID }
func (p *Payment) Method() string                       { return p.method }
func (p *Payment) Amount() int64                        { return p.amount }
func (p *Payment) Status() Status                       { return p.status }
func (p *Payment) MerchantReference() MerchantReference { return p.merchantRef }
func (p *Payment) ExternalReference() string            { return p.externalRef }
func (p *Payment) PaidAt() *time.Time                   { return p.paidAt }
func (p *Payment) CreatedAt() time.Time                 { return p.createdAt }

func (p *Payment) IsPaid() bool {
	return p.status == Paid
}

// Verify checks the provider record against the stored payment. Checks run in a
// fixed order: provider status, amount, merchant reference, already paid.
// It never mutates the payment.
func (p *Payment) Verify(record ProviderPayment) error {
	if !strings.EqualFold(record.Status, ProviderStatusPaid) {
		return fmt.Errorf("%w: status %q", ErrNotPaid, record.Status)
	}
	if record.Amount != p.amount {
		return fmt.Errorf("%w: provider %d, stored %d", ErrAmountMismatch, record.Amount, p.amount)
	}
	if record.MerchantReference != p.merchantRef.String() {
		return fmt.Errorf("%w: provider %q, stored %q", ErrMerchantRefMismatch, record.MerchantReference, p.merchantRef)
	}
	if p.status == Paid {
		return ErrAlreadyPaid
	}
	return nil
}

// Complete verifies the provider record and marks the payment PAID.
func (p *Payment) Complete(record ProviderPayment, now time.Time) error {
	if err := p.Verify(record); err != nil {
		return err
	}
	if strings.TrimSpace(record.ExternalID) == "" {
		return errs.NewValueIsRequiredError("external payment id")
	}

	status, err := p.status.transitionTo(Paid)
	if err != nil {
		return err
	}

	paidAt := now.UTC()
	if record.PaidAt != nil && !record.PaidAt.IsZero() {
		paidAt = record.PaidAt.UTC()
	}

	p.status = status
	p.paidAt = &paidAt
	p.externalRef = record.ExternalID
	if record.Method != "" {
		p.method = record.Method
	}

	p.RaiseDomainEvent(ConfirmedEvent{
		BaseEvent:         ddd.NewBaseEvent(EventTypeConfirmed, p.id.Bytes()),
		PaymentID:         p.id.String(),
		OrderID:           p.orderID.String(),
		Amount:            p.amount,
		Method:            p.method,
		MerchantReference: p.merchantRef.String(),
		ExternalReference: p.externalRef,
	})
	return nil
}

// Fail abandons a PENDING payment.
func (p *Payment) Fail(reason string) error {
	status, err := p.status.transitionTo(Failed)
	if err != nil {
		return err
	}

	p.status = status
	p.RaiseDomainEvent(FailedEvent{
		BaseEvent:         ddd.NewBaseEvent(EventTypeFailed, p.id.Bytes()),
		PaymentID:         p.id.String(),
		OrderID:           p.orderID.String(),
		MerchantReference: p.merchantRef.String(),
		Reason:            reason,
	})
	return nil
}

func (p *Payment) setIDs(id, orderID kernel.UUID) error {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return err
	}
	p.id = id
	p.orderID = orderID
	return nil
}

func (p *Payment) setAmount(amount int64) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount is invalid", fmt.Errorf("%d is not greater than 0", amount))
	}
	p.amount = amount
	return nil
}

func (p *Payment) setMerchantRef(ref MerchantReference, orderID kernel.UUID) error {
	if ref.IsZero() {
		return errs.NewValueIsRequiredError("merchant reference")
	}
	if !ref.OrderID().IsEqual(orderID) {
		return errs.NewValueIsInvalidErrorWithCause("merchant reference", fmt.Errorf("%s does not belong to order %s", ref, orderID))
	}
	p.merchantRef = ref
	return nil
}
