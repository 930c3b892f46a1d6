package settlement

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status of a settlement header.
type Status string

const (
	StatusCalculated Status = "CALCULATED"
	StatusPaid       Status = "PAID"
	StatusCanceled   Status = "CANCELED"
)

func (s Status) Validate() error {
	switch s {
	case StatusCalculated, StatusPaid, StatusCanceled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("settlement status", fmt.Errorf("%q is not a valid status", string(s)))
	}
}

// ItemStatus of a settlement item.
type ItemStatus string

const (
	ItemPending  ItemStatus = "PENDING"
	ItemIncluded ItemStatus = "INCLUDED"
	ItemPaid     ItemStatus = "PAID"
	ItemCanceled ItemStatus = "CANCELED"
)

func (s ItemStatus) Validate() error {
	switch s {
	case ItemPending, ItemIncluded, ItemPaid, ItemCanceled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("settlement item status", fmt.Errorf("%q is not a valid status", string(s)))
	}
}

// transitionTo only moves forward: PENDING to INCLUDED to PAID, or to CANCELED
// from PENDING or INCLUDED.
func (s ItemStatus) transitionTo(next ItemStatus) (ItemStatus, error) {
	allowed := false
	//nolint:exhaustive // ItemPending is never re-entered
	switch next {
	case ItemIncluded:
		allowed = s == ItemPending
	case ItemPaid:
		allowed = s == ItemIncluded
	case ItemCanceled:
		allowed = s == ItemPending || s == ItemIncluded
	}
	if !allowed {
		return s, errs.NewInvalidStateTransitionError("settlement item", string(s), string(next))
	}
	return next, nil
}
