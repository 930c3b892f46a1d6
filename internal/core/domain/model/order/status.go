package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	Confirmed
	Cooking
	Cooked
	Delivered
	Rejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Pending:   "PENDING",
		Confirmed: "CONFIRMED",
		Cooking:   "COOKING",
		Cooked:    "COOKED",
		Delivered: "DELIVERED",
		Rejected:  "REJECTED",
	}
}

// getAllowedPredecessors lists, per target state, the states it may be entered from.
func getAllowedPredecessors() map[Status][]Status {
	//nolint:exhaustive // Pending and Unknown are never transition targets
	return map[Status][]Status{
		Confirmed: {Pending},
		Cooking:   {Pending, Confirmed},
		Rejected:  {Pending, Confirmed},
		Cooked:    {Cooking},
		Delivered: {Cooked},
	}
}

func (s Status) Validate() error {
	if s <= Unknown || s > Rejected {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsFinal reports whether no further transitions are possible.
func (s Status) IsFinal() bool {
	return s == Delivered || s == Rejected
}

// CanTransitionTo reports whether next may directly follow s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, from := range getAllowedPredecessors()[next] {
		if from == s {
			return true
		}
	}
	return false
}

// TransitionTo returns next if the move is legal.
func (s Status) TransitionTo(next Status) (Status, error) {
	if !s.CanTransitionTo(next) {
		return s, errs.NewInvalidStateTransitionError("order", s.String(), next.String())
	}
	return next, nil
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
