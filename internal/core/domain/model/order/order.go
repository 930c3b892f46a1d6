package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/ddd"
	"marketplace/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root for a buyer's purchase from a single store.
//
// Invariants:
//   - ids of the order, buyer and store are valid
//   - total price is positive, delivery fee is not negative
//   - the address snapshot is captured at placement and never changes
//   - status only moves along the graph documented in the package
type Order struct {
	ddd.BaseAggregate

	id          kernel.UUID
	buyerID     kernel.UUID
	storeID     kernel.UUID
	address     string
	totalPrice  int64
	deliveryFee int64
	status      Status

	// rejectReason is metadata kept alongside REJECTED.
	rejectReason string
	createdAt    time.Time

	isConstructed bool
}

// NewOrder places a new order in PENDING status.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), buyerID, storeID, "12 Main st, apt 3", 25000, 3000, time.Now())
//	if err != nil {
//	    return err
//	}
func NewOrder(
	id, buyerID, storeID kernel.UUID,
	address string,
	totalPrice, deliveryFee int64,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setIDs(id, buyerID, storeID),
		o.setAddress(address),
		o.setPrices(totalPrice, deliveryFee),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persistence with its stored status and version.
func RestoreOrder(
	id, buyerID, storeID kernel.UUID,
	address string,
	totalPrice, deliveryFee int64,
	status Status,
	rejectReason string,
	createdAt time.Time,
	version int,
) (*Order, error) {
	o := &Order{
		rejectReason:  rejectReason,
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setIDs(id, buyerID, storeID),
		o.setAddress(address),
		o.setPrices(totalPrice, deliveryFee),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	o.status = status
	o.SetVersion(version)
	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID      { return o.id }
func (o *Order) BuyerID() kernel.UUID { return o.buyerID }
func (o *Order) StoreID() kernel.UUID { return o.storeID }
func (o *Order) Address() string      { return o.address }
func (o *Order) TotalPrice() int64    { return o.totalPrice }
func (o *Order) DeliveryFee() int64   { return o.deliveryFee }
func (o *Order) Status() Status       { return o.status }
func (o *Order) RejectReason() string { return o.rejectReason }
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// PayableAmount is what the buyer pays: food total plus delivery fee.
func (o *Order) PayableAmount() int64 {
	return o.totalPrice + o.deliveryFee
}

// Confirm marks the order as paid. Only the payment flow calls it.
func (o *Order) Confirm() error {
	return o.transition(Confirmed, "")
}

// StartCooking is the store's acceptance of the order.
func (o *Order) StartCooking() error {
	return o.transition(Cooking, "")
}

func (o *Order) MarkCooked() error {
	return o.transition(Cooked, "")
}

func (o *Order) MarkDelivered() error {
	return o.transition(Delivered, "")
}

// Reject refuses the order. The reason is kept as metadata.
func (o *Order) Reject(reason string) error {
	if err := o.transition(Rejected, strings.TrimSpace(reason)); err != nil {
		return err
	}
	o.rejectReason = strings.TrimSpace(reason)
	return nil
}

func (o *Order) transition(next Status, reason string) error {
	from := o.status
	newStatus, err := from.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.RaiseDomainEvent(newStatusChangedEvent(o, from, reason))
	return nil
}

func (o *Order) setIDs(id, buyerID, storeID kernel.UUID) error {
	if err := errors.Join(id.Validate(), buyerID.Validate(), storeID.Validate()); err != nil {
		return err
	}
	o.id = id
	o.buyerID = buyerID
	o.storeID = storeID
	return nil
}

func (o *Order) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	o.address = address
	return nil
}

func (o *Order) setPrices(totalPrice, deliveryFee int64) error {
	if totalPrice <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("total price is invalid", fmt.Errorf("%d is not greater than 0", totalPrice))
	}
	if deliveryFee < 0 {
		return errs.NewValueIsInvalidErrorWithCause("delivery fee is invalid", fmt.Errorf("%d is negative", deliveryFee))
	}
	o.totalPrice = totalPrice
	o.deliveryFee = deliveryFee
	return nil
}
