package settlement

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/ddd"
	"marketplace/internal/pkg/errs"
)

var (
	ErrOwnerItemIsNotConstructed       = errors.New("OwnerItem must be created via NewOwnerItem constructor")
	ErrOwnerSettlementIsNotConstructed = errors.New("OwnerSettlement must be created via NewOwnerSettlement constructor")
	ErrNothingToSettle                 = errors.New("no pending settlement items in period")
	ErrItemsAlreadyClaimed             = errors.New("settlement items were claimed by another settlement")
)

// Breakdown splits a gross amount into platform fee, payment-provider fee and net.
type Breakdown struct {
	Gross       int64
	PlatformFee int64
	PgFee       int64
	Net         int64
}

func (b Breakdown) Validate() error {
	if b.Gross < 0 || b.PlatformFee < 0 || b.PgFee < 0 {
		return errs.NewValueIsInvalidErrorWithCause("breakdown", fmt.Errorf("negative component in %+v", b))
	}
	if b.Gross-b.PlatformFee-b.PgFee != b.Net {
		return errs.NewValueIsInvalidErrorWithCause("breakdown", fmt.Errorf("net %d is not gross minus fees", b.Net))
	}
	return nil
}

func (b Breakdown) add(other Breakdown) Breakdown {
	return Breakdown{
		Gross:       b.Gross + other.Gross,
		PlatformFee: b.PlatformFee + other.PlatformFee,
		PgFee:       b.PgFee + other.PgFee,
		Net:         b.Net + other.Net,
	}
}

// OwnerItem is the settlement line of one paid order.
type OwnerItem struct {
	lineState

	id        kernel.UUID
	ownerID   kernel.UUID
	storeID   kernel.UUID
	orderID   kernel.UUID
	paymentID kernel.UUID
	paidAt    time.Time
	amounts   Breakdown

	isConstructed bool
}

// NewOwnerItem creates a PENDING line not yet attached to any settlement.
func NewOwnerItem(
	id, ownerID, storeID, orderID, paymentID kernel.UUID,
	paidAt time.Time,
	amounts Breakdown,
) (*OwnerItem, error) {
	return RestoreOwnerItem(id, ownerID, storeID, orderID, paymentID, paidAt, amounts, nil, ItemPending)
}

func RestoreOwnerItem(
	id, ownerID, storeID, orderID, paymentID kernel.UUID,
	paidAt time.Time,
	amounts Breakdown,
	settlementID *kernel.UUID,
	status ItemStatus,
) (*OwnerItem, error) {
	state, stateErr := restoreLineState(settlementID, status)
	if err := errors.Join(
		id.Validate(),
		ownerID.Validate(),
		storeID.Validate(),
		orderID.Validate(),
		paymentID.Validate(),
		amounts.Validate(),
		stateErr,
	); err != nil {
		return nil, err
	}

	return &OwnerItem{
		lineState:     state,
		id:            id,
		ownerID:       ownerID,
		storeID:       storeID,
		orderID:       orderID,
		paymentID:     paymentID,
		paidAt:        paidAt.UTC(),
		amounts:       amounts,
		isConstructed: true,
	}, nil
}

func (i *OwnerItem) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrOwnerItemIsNotConstructed
	}
	return nil
}

func (i *OwnerItem) ID() kernel.UUID        { return i.id }
func (i *OwnerItem) OwnerID() kernel.UUID   { return i.ownerID }
func (i *OwnerItem) StoreID() kernel.UUID   { return i.storeID }
func (i *OwnerItem) OrderID() kernel.UUID   { return i.orderID }
func (i *OwnerItem) PaymentID() kernel.UUID { return i.paymentID }
func (i *OwnerItem) PaidAt() time.Time      { return i.paidAt }
func (i *OwnerItem) Amounts() Breakdown     { return i.amounts }

// OwnerSettlement batches a store owner's items for one period.
type OwnerSettlement struct {
	ddd.BaseAggregate

	id                 kernel.UUID
	ownerID            kernel.UUID
	period             Period
	totals             Breakdown
	itemCount          int
	status             Status
	paidAt             *time.Time
	externalTransferID string
	createdAt          time.Time

	isConstructed bool
}

// NewOwnerSettlement builds a CALCULATED header over items and includes each of them.
// Items must be PENDING, belong to ownerID and have been paid within period.
func NewOwnerSettlement(
	id, ownerID kernel.UUID,
	period Period,
	items []*OwnerItem,
	now time.Time,
) (*OwnerSettlement, error) {
	if err := errors.Join(id.Validate(), ownerID.Validate()); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNothingToSettle
	}

	var totals Breakdown
	for _, item := range items {
		if !item.ownerID.IsEqual(ownerID) {
			return nil, errs.NewValueIsInvalidErrorWithCause("settlement item",
				fmt.Errorf("item %s belongs to owner %s", item.id, item.ownerID))
		}
		if !period.Contains(item.paidAt) {
			return nil, errs.NewValueIsInvalidErrorWithCause("settlement item",
				fmt.Errorf("item %s paid at %s is outside %s", item.id, item.paidAt.Format(time.RFC3339), period))
		}
		if item.Status() != ItemPending {
			return nil, fmt.Errorf("item %s is %s: %w", item.id, item.Status(), ErrItemsAlreadyClaimed)
		}
		totals = totals.add(item.amounts)
	}
	for _, item := range items {
		if err := item.Include(id); err != nil {
			return nil, err
		}
	}

	return &OwnerSettlement{
		id:            id,
		ownerID:       ownerID,
		period:        period,
		totals:        totals,
		itemCount:     len(items),
		status:        StatusCalculated,
		createdAt:     now.UTC(),
		isConstructed: true,
	}, nil
}

func RestoreOwnerSettlement(
	id, ownerID kernel.UUID,
	period Period,
	totals Breakdown,
	itemCount int,
	status Status,
	paidAt *time.Time,
	externalTransferID string,
	createdAt time.Time,
) (*OwnerSettlement, error) {
	if err := errors.Join(id.Validate(), ownerID.Validate(), totals.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	return &OwnerSettlement{
		id:                 id,
		ownerID:            ownerID,
		period:             period,
		totals:             totals,
		itemCount:          itemCount,
		status:             status,
		paidAt:             paidAt,
		externalTransferID: externalTransferID,
		createdAt:          createdAt.UTC(),
		isConstructed:      true,
	}, nil
}

func (s *OwnerSettlement) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrOwnerSettlementIsNotConstructed
	}
	return nil
}

func (s *OwnerSettlement) ID() kernel.UUID            { return s.id }
func (s *OwnerSettlement) OwnerID() kernel.UUID       { return s.ownerID }
func (s *OwnerSettlement) Period() Period             { return s.period }
func (s *OwnerSettlement) Totals() Breakdown          { return s.totals }
func (s *OwnerSettlement) ItemCount() int             { return s.itemCount }
func (s *OwnerSettlement) Status() Status             { return s.status }
func (s *OwnerSettlement) PaidAt() *time.Time         { return s.paidAt }
func (s *OwnerSettlement) ExternalTransferID() string { return s.externalTransferID }
func (s *OwnerSettlement) CreatedAt() time.Time       { return s.createdAt }

// MarkPaid records the payout. It reports false without error when the
// settlement was already paid.
func (s *OwnerSettlement) MarkPaid(externalTransferID string, now time.Time) (bool, error) {
	paid, err := markHeaderPaid(&s.status, &s.paidAt, &s.externalTransferID, externalTransferID, now)
	if err != nil || !paid {
		return paid, err
	}
	s.RaiseDomainEvent(newPaidEvent(PartyOwner, s.id, s.ownerID, s.totals.Net, externalTransferID))
	return true, nil
}

// Cancel voids a CALCULATED settlement; the caller cancels its items.
func (s *OwnerSettlement) Cancel() error {
	return cancelHeader(&s.status)
}

func markHeaderPaid(
	status *Status,
	paidAt **time.Time,
	transferRef *string,
	externalTransferID string,
	now time.Time,
) (bool, error) {
	switch *status {
	case StatusPaid:
		return false, nil
	case StatusCalculated:
		at := now.UTC()
		*status = StatusPaid
		*paidAt = &at
		*transferRef = externalTransferID
		return true, nil
	default:
		return false, errs.NewInvalidStateTransitionError("settlement", string(*status), string(StatusPaid))
	}
}

func cancelHeader(status *Status) error {
	if *status != StatusCalculated {
		return errs.NewInvalidStateTransitionError("settlement", string(*status), string(StatusCanceled))
	}
	*status = StatusCanceled
	return nil
}
