package delivery

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status of a delivery.
//
//	PENDING ──> ASSIGNED ──> ACCEPTED ──> PICKED_UP ──> IN_DELIVERY ──> DELIVERED
//	any non-terminal ──> CANCELLED
//	any non-terminal ──(reopen)──> PENDING
type Status int

const (
	Unknown Status = iota
	Pending
	Assigned
	Accepted
	PickedUp
	InDelivery
	Delivered
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Pending:    "PENDING",
		Assigned:   "ASSIGNED",
		Accepted:   "ACCEPTED",
		PickedUp:   "PICKED_UP",
		InDelivery: "IN_DELIVERY",
		Delivered:  "DELIVERED",
		Cancelled:  "CANCELLED",
	}
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether the delivery is finished or cancelled.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// next returns the single forward successor of a courier-driven step.
func (s Status) next() (Status, bool) {
	//nolint:exhaustive // only courier-driven steps have a successor
	switch s {
	case Accepted:
		return PickedUp, true
	case PickedUp:
		return InDelivery, true
	case InDelivery:
		return Delivered, true
	default:
		return Unknown, false
	}
}

func (s Status) advanceTo(target Status) (Status, error) {
	if next, ok := s.next(); !ok || next != target {
		return s, errs.NewInvalidStateTransitionError("delivery", s.String(), target.String())
	}
	return target, nil
}

// ParseStatus maps a status name back to its value.
func ParseStatus(name string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", name))
}
