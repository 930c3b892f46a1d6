package delivery

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/ddd"
	"marketplace/internal/pkg/errs"
)

var (
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")
	ErrCourierAlreadyAssigned   = errors.New("courier is already assigned")
	ErrNoCourierAssigned        = errors.New("no courier is assigned")
)

// Delivery tracks the courier leg of one order.
type Delivery struct {
	ddd.BaseAggregate

	id        kernel.UUID
	orderID   kernel.UUID
	courierID *kernel.UUID
	status    Status

	distanceMeters    int
	estimatedDuration time.Duration
	actualDuration    *time.Duration

	assignedAt  *time.Time
	acceptedAt  *time.Time
	pickedUpAt  *time.Time
	startedAt   *time.Time
	completedAt *time.Time

	isConstructed bool
}

// NewDelivery creates an unassigned PENDING delivery for the order.
func NewDelivery(id, orderID kernel.UUID, distanceMeters int, estimatedDuration time.Duration) (*Delivery, error) {
	d := &Delivery{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		d.setRoute(distanceMeters, estimatedDuration),
	); err != nil {
		return nil, err
	}

	d.id = id
	d.orderID = orderID
	return d, nil
}

// Timeline carries the persisted step timestamps of a delivery.
type Timeline struct {
	AssignedAt     *time.Time
	AcceptedAt     *time.Time
	PickedUpAt     *time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	ActualDuration *time.Duration
}

// RestoreDelivery rebuilds a delivery from persistence.
func RestoreDelivery(
	id, orderID kernel.UUID,
	courierID *kernel.UUID,
	status Status,
	distanceMeters int,
	estimatedDuration time.Duration,
	timeline Timeline,
) (*Delivery, error) {
	d := &Delivery{
		courierID:      courierID,
		status:         status,
		assignedAt:     timeline.AssignedAt,
		acceptedAt:     timeline.AcceptedAt,
		pickedUpAt:     timeline.PickedUpAt,
		startedAt:      timeline.StartedAt,
		completedAt:    timeline.CompletedAt,
		actualDuration: timeline.ActualDuration,
		isConstructed:  true,
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		status.Validate(),
		d.setRoute(distanceMeters, estimatedDuration),
	); err != nil {
		return nil, err
	}

	d.id = id
	d.orderID = orderID
	return d, nil
}

func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

func (d *Delivery) ID() kernel.UUID                  { return d.id }
func (d *Delivery) OrderID() kernel.UUID             { return d.orderID }
func (d *Delivery) CourierID() *kernel.UUID          { return d.courierID }
func (d *Delivery) Status() Status                   { return d.status }
func (d *Delivery) DistanceMeters() int              { return d.distanceMeters }
func (d *Delivery) EstimatedDuration() time.Duration { return d.estimatedDuration }
func (d *Delivery) ActualDuration() *time.Duration   { return d.actualDuration }
func (d *Delivery) AssignedAt() *time.Time           { return d.assignedAt }
func (d *Delivery) AcceptedAt() *time.Time           { return d.acceptedAt }
func (d *Delivery) PickedUpAt() *time.Time           { return d.pickedUpAt }
func (d *Delivery) StartedAt() *time.Time            { return d.startedAt }
func (d *Delivery) CompletedAt() *time.Time          { return d.completedAt }

func (d *Delivery) Timeline() Timeline {
	return Timeline{
		AssignedAt:     d.assignedAt,
		AcceptedAt:     d.acceptedAt,
		PickedUpAt:     d.pickedUpAt,
		StartedAt:      d.startedAt,
		CompletedAt:    d.completedAt,
		ActualDuration: d.actualDuration,
	}
}

// IsAssignedTo reports whether courierID is the assigned courier.
func (d *Delivery) IsAssignedTo(courierID kernel.UUID) bool {
	return d.courierID != nil && d.courierID.IsEqual(courierID)
}

// Assign attaches a courier to an unassigned, non-terminal delivery.
func (d *Delivery) Assign(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if d.status.IsTerminal() {
		return errs.NewInvalidStateTransitionError("delivery", d.status.String(), Assigned.String())
	}
	if d.courierID != nil {
		return errs.NewInvalidStateTransitionErrorWithCause("delivery", d.status.String(), Assigned.String(), ErrCourierAlreadyAssigned)
	}

	at := now.UTC()
	d.courierID = &courierID
	d.assignedAt = &at
	d.changeStatus(Assigned)
	return nil
}

// Accept is the assigned courier confirming the delivery. The caller must hold
// the row lock on the delivery.
func (d *Delivery) Accept(courierID kernel.UUID, now time.Time) error {
	if d.courierID == nil {
		return errs.NewInvalidStateTransitionErrorWithCause("delivery", d.status.String(), Accepted.String(), ErrNoCourierAssigned)
	}
	if !d.courierID.IsEqual(courierID) {
		return errs.NewForbiddenError("accept delivery assigned to another courier")
	}
	if d.status != Assigned {
		return errs.NewInvalidStateTransitionError("delivery", d.status.String(), Accepted.String())
	}

	at := now.UTC()
	d.acceptedAt = &at
	d.changeStatus(Accepted)
	return nil
}

func (d *Delivery) PickUp(courierID kernel.UUID, now time.Time) error {
	if err := d.advance(courierID, PickedUp); err != nil {
		return err
	}
	at := now.UTC()
	d.pickedUpAt = &at
	return nil
}

func (d *Delivery) Start(courierID kernel.UUID, now time.Time) error {
	if err := d.advance(courierID, InDelivery); err != nil {
		return err
	}
	at := now.UTC()
	d.startedAt = &at
	return nil
}

// Complete finishes the delivery and records the actual duration since Start.
func (d *Delivery) Complete(courierID kernel.UUID, now time.Time) error {
	if err := d.advance(courierID, Delivered); err != nil {
		return err
	}
	at := now.UTC()
	d.completedAt = &at
	if d.startedAt != nil {
		actual := at.Sub(*d.startedAt)
		d.actualDuration = &actual
	}
	return nil
}

// Reopen clears the courier and returns a non-terminal delivery to PENDING.
func (d *Delivery) Reopen() error {
	if d.status.IsTerminal() {
		return errs.NewInvalidStateTransitionError("delivery", d.status.String(), Pending.String())
	}

	d.courierID = nil
	d.assignedAt = nil
	d.acceptedAt = nil
	d.pickedUpAt = nil
	d.startedAt = nil
	d.changeStatus(Pending)
	return nil
}

func (d *Delivery) Cancel() error {
	if d.status.IsTerminal() {
		return errs.NewInvalidStateTransitionError("delivery", d.status.String(), Cancelled.String())
	}
	d.changeStatus(Cancelled)
	return nil
}

// IsStaleAssignment reports an assignment not accepted within timeout.
func (d *Delivery) IsStaleAssignment(now time.Time, timeout time.Duration) bool {
	return d.status == Assigned && d.assignedAt != nil && now.Sub(*d.assignedAt) >= timeout
}

func (d *Delivery) advance(courierID kernel.UUID, target Status) error {
	if !d.IsAssignedTo(courierID) {
		return errs.NewForbiddenError(fmt.Sprintf("move delivery to %s", target))
	}
	next, err := d.status.advanceTo(target)
	if err != nil {
		return err
	}
	d.changeStatus(next)
	return nil
}

func (d *Delivery) changeStatus(next Status) {
	from := d.status
	d.status = next

	var courier string
	if d.courierID != nil {
		courier = d.courierID.String()
	}
	d.RaiseDomainEvent(StatusChangedEvent{
		BaseEvent:  ddd.NewBaseEvent(EventTypeStatusChanged, d.id.Bytes()),
		DeliveryID: d.id.String(),
		OrderID:    d.orderID.String(),
		CourierID:  courier,
		From:       from.String(),
		To:         next.String(),
	})
}

func (d *Delivery) setRoute(distanceMeters int, estimatedDuration time.Duration) error {
	if distanceMeters < 0 {
		return errs.NewValueIsOutOfRangeError("distance meters", distanceMeters, 0, "unbounded")
	}
	if estimatedDuration < 0 {
		return errs.NewValueIsInvalidErrorWithCause("estimated duration", fmt.Errorf("%s is negative", estimatedDuration))
	}
	d.distanceMeters = distanceMeters
	d.estimatedDuration = estimatedDuration
	return nil
}
