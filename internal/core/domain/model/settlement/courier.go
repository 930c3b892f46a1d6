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
	ErrCourierItemIsNotConstructed       = errors.New("CourierItem must be created via NewCourierItem constructor")
	ErrCourierSettlementIsNotConstructed = errors.New("CourierSettlement must be created via NewCourierSettlement constructor")
)

// FeeSnapshot freezes the fee rule terms used to price a delivery.
type FeeSnapshot struct {
	RuleID   kernel.UUID
	BaseFee  int64
	PerKmFee int64
}

// CourierItem is the settlement line of one completed delivery.
type CourierItem struct {
	lineState

	id             kernel.UUID
	courierID      kernel.UUID
	deliveryID     kernel.UUID
	completedAt    time.Time
	distanceMeters int
	fee            FeeSnapshot
	earning        int64

	isConstructed bool
}

func NewCourierItem(
	id, courierID, deliveryID kernel.UUID,
	completedAt time.Time,
	distanceMeters int,
	fee FeeSnapshot,
	earning int64,
) (*CourierItem, error) {
	return RestoreCourierItem(id, courierID, deliveryID, completedAt, distanceMeters, fee, earning, nil, ItemPending)
}

func RestoreCourierItem(
	id, courierID, deliveryID kernel.UUID,
	completedAt time.Time,
	distanceMeters int,
	fee FeeSnapshot,
	earning int64,
	settlementID *kernel.UUID,
	status ItemStatus,
) (*CourierItem, error) {
	var errList []error
	if distanceMeters < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("distance meters", distanceMeters, 0, "unbounded"))
	}
	if earning < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("earning", fmt.Errorf("%d is negative", earning)))
	}
	state, stateErr := restoreLineState(settlementID, status)
	errList = append(errList,
		id.Validate(),
		courierID.Validate(),
		deliveryID.Validate(),
		fee.RuleID.Validate(),
		stateErr,
	)
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return &CourierItem{
		lineState:      state,
		id:             id,
		courierID:      courierID,
		deliveryID:     deliveryID,
		completedAt:    completedAt.UTC(),
		distanceMeters: distanceMeters,
		fee:            fee,
		earning:        earning,
		isConstructed:  true,
	}, nil
}

func (i *CourierItem) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrCourierItemIsNotConstructed
	}
	return nil
}

func (i *CourierItem) ID() kernel.UUID         { return i.id }
func (i *CourierItem) CourierID() kernel.UUID  { return i.courierID }
func (i *CourierItem) DeliveryID() kernel.UUID { return i.deliveryID }
func (i *CourierItem) CompletedAt() time.Time  { return i.completedAt }
func (i *CourierItem) DistanceMeters() int     { return i.distanceMeters }
func (i *CourierItem) Fee() FeeSnapshot        { return i.fee }
func (i *CourierItem) Earning() int64          { return i.earning }

// CourierSettlement batches a courier's delivery earnings for one period.
type CourierSettlement struct {
	ddd.BaseAggregate

	id                 kernel.UUID
	courierID          kernel.UUID
	period             Period
	totalEarning       int64
	itemCount          int
	status             Status
	paidAt             *time.Time
	externalTransferID string
	createdAt          time.Time

	isConstructed bool
}

// NewCourierSettlement builds a CALCULATED header over items and includes each of them.
func NewCourierSettlement(
	id, courierID kernel.UUID,
	period Period,
	items []*CourierItem,
	now time.Time,
) (*CourierSettlement, error) {
	if err := errors.Join(id.Validate(), courierID.Validate()); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNothingToSettle
	}

	var total int64
	for _, item := range items {
		if !item.courierID.IsEqual(courierID) {
			return nil, errs.NewValueIsInvalidErrorWithCause("settlement item",
				fmt.Errorf("item %s belongs to courier %s", item.id, item.courierID))
		}
		if !period.Contains(item.completedAt) {
			return nil, errs.NewValueIsInvalidErrorWithCause("settlement item",
				fmt.Errorf("item %s completed at %s is outside %s", item.id, item.completedAt.Format(time.RFC3339), period))
		}
		if item.Status() != ItemPending {
			return nil, fmt.Errorf("item %s is %s: %w", item.id, item.Status(), ErrItemsAlreadyClaimed)
		}
		total += item.earning
	}
	for _, item := range items {
		if err := item.Include(id); err != nil {
			return nil, err
		}
	}

	return &CourierSettlement{
		id:            id,
		courierID:     courierID,
		period:        period,
		totalEarning:  total,
		itemCount:     len(items),
		status:        StatusCalculated,
		createdAt:     now.UTC(),
		isConstructed: true,
	}, nil
}

func RestoreCourierSettlement(
	id, courierID kernel.UUID,
	period Period,
	totalEarning int64,
	itemCount int,
	status Status,
	paidAt *time.Time,
	externalTransferID string,
	createdAt time.Time,
) (*CourierSettlement, error) {
	if err := errors.Join(id.Validate(), courierID.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	return &CourierSettlement{
		id:                 id,
		courierID:          courierID,
		period:             period,
		totalEarning:       totalEarning,
		itemCount:          itemCount,
		status:             status,
		paidAt:             paidAt,
		externalTransferID: externalTransferID,
		createdAt:          createdAt.UTC(),
		isConstructed:      true,
	}, nil
}

func (s *CourierSettlement) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrCourierSettlementIsNotConstructed
	}
	return nil
}

func (s *CourierSettlement) ID() kernel.UUID            { return s.id }
func (s *CourierSettlement) CourierID() kernel.UUID     { return s.courierID }
func (s *CourierSettlement) Period() Period             { return s.period }
func (s *CourierSettlement) TotalEarning() int64        { return s.totalEarning }
func (s *CourierSettlement) ItemCount() int             { return s.itemCount }
func (s *CourierSettlement) Status() Status             { return s.status }
func (s *CourierSettlement) PaidAt() *time.Time         { return s.paidAt }
func (s *CourierSettlement) ExternalTransferID() string { return s.externalTransferID }
func (s *CourierSettlement) CreatedAt() time.Time       { return s.createdAt }

func (s *CourierSettlement) MarkPaid(externalTransferID string, now time.Time) (bool, error) {
	paid, err := markHeaderPaid(&s.status, &s.paidAt, &s.externalTransferID, externalTransferID, now)
	if err != nil || !paid {
		return paid, err
	}
	s.RaiseDomainEvent(newPaidEvent(PartyCourier, s.id, s.courierID, s.totalEarning, externalTransferID))
	return true, nil
}

func (s *CourierSettlement) Cancel() error {
	return cancelHeader(&s.status)
}
