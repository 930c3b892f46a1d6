// Package ledger records money movements as append-only transactions.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var ErrTransactionIsNotConstructed = errors.New("Transaction must be created via NewTransaction constructor")

// Type of money movement.
type Type string

const (
	TypeUserPayment   Type = "USER_PAYMENT"
	TypeStorePayout   Type = "STORE_PAYOUT"
	TypeCourierPayout Type = "COURIER_PAYOUT"
)

func (t Type) Validate() error {
	switch t {
	case TypeUserPayment, TypeStorePayout, TypeCourierPayout:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("ledger type", fmt.Errorf("%q is not a valid type", string(t)))
	}
}

// RelatedType names the entity a transaction belongs to.
type RelatedType string

const (
	RelatedPayment           RelatedType = "PAYMENT"
	RelatedOwnerSettlement   RelatedType = "OWNER_SETTLEMENT"
	RelatedCourierSettlement RelatedType = "COURIER_SETTLEMENT"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Transaction is one append-only ledger row.
type Transaction struct {
	id          kernel.UUID
	txType      Type
	relatedType RelatedType
	relatedID   kernel.UUID
	amount      int64
	currency    string
	status      Status
	externalRef string
	createdAt   time.Time
	completedAt *time.Time

	isConstructed bool
}

// NewTransaction opens a PENDING transaction.
func NewTransaction(
	id kernel.UUID,
	txType Type,
	relatedType RelatedType,
	relatedID kernel.UUID,
	amount int64,
	currency string,
	externalRef string,
	now time.Time,
) (*Transaction, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	var amountErr, currencyErr error
	if amount < 0 {
		amountErr = errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is negative", amount))
	}
	if len(currency) != 3 {
		currencyErr = errs.NewValueIsInvalidErrorWithCause("currency", fmt.Errorf("%q is not an ISO 4217 code", currency))
	}
	if err := errors.Join(id.Validate(), txType.Validate(), relatedID.Validate(), amountErr, currencyErr); err != nil {
		return nil, err
	}

	return &Transaction{
		id:            id,
		txType:        txType,
		relatedType:   relatedType,
		relatedID:     relatedID,
		amount:        amount,
		currency:      currency,
		status:        StatusPending,
		externalRef:   externalRef,
		createdAt:     now.UTC(),
		isConstructed: true,
	}, nil
}

// NewCompletedTransaction records a movement that already happened.
func NewCompletedTransaction(
	txType Type,
	relatedType RelatedType,
	relatedID kernel.UUID,
	amount int64,
	currency string,
	externalRef string,
	now time.Time,
) (*Transaction, error) {
	tx, err := NewTransaction(kernel.NewUUID(), txType, relatedType, relatedID, amount, currency, externalRef, now)
	if err != nil {
		return nil, err
	}
	if err = tx.Complete(now); err != nil {
		return nil, err
	}
	return tx, nil
}

// RestoreTransaction rebuilds a ledger row from persistence.
func RestoreTransaction(
	id kernel.UUID,
	txType Type,
	relatedType RelatedType,
	relatedID kernel.UUID,
	amount int64,
	currency string,
	status Status,
	externalRef string,
	createdAt time.Time,
	completedAt *time.Time,
) (*Transaction, error) {
	tx, err := NewTransaction(id, txType, relatedType, relatedID, amount, currency, externalRef, createdAt)
	if err != nil {
		return nil, err
	}
	tx.status = status
	tx.completedAt = completedAt
	return tx, nil
}

func (t *Transaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTransactionIsNotConstructed
	}
	return nil
}

func (t *Transaction) Complete(now time.Time) error {
	if t.status != StatusPending {
		return errs.NewInvalidStateTransitionError("ledger transaction", string(t.status), string(StatusCompleted))
	}
	at := now.UTC()
	t.status = StatusCompleted
	t.completedAt = &at
	return nil
}

func (t *Transaction) Fail() error {
	if t.status != StatusPending {
		return errs.NewInvalidStateTransitionError("ledger transaction", string(t.status), string(StatusFailed))
	}
	t.status = StatusFailed
	return nil
}

func (t *Transaction) ID() kernel.UUID           { return t.id }
func (t *Transaction) Type() Type                { return t.txType }
func (t *Transaction) RelatedType() RelatedType  { return t.relatedType }
func (t *Transaction) RelatedID() kernel.UUID    { return t.relatedID }
func (t *Transaction) Amount() int64             { return t.amount }
func (t *Transaction) Currency() string          { return t.currency }
func (t *Transaction) Status() Status            { return t.status }
func (t *Transaction) ExternalReference() string { return t.externalRef }
func (t *Transaction) CreatedAt() time.Time      { return t.createdAt }
func (t *Transaction) CompletedAt() *time.Time   { return t.completedAt }
