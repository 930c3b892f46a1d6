package payment

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status of a payment. Only PENDING -> PAID and PENDING -> FAILED are allowed.
type Status int

const (
	Unknown Status = iota
	Pending
	Paid
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown: "UNKNOWN",
		Pending: "PENDING",
		Paid:    "PAID",
		Failed:  "FAILED",
	}
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func (s Status) Validate() error {
	if s <= Unknown || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) transitionTo(next Status) (Status, error) {
	if s != Pending || (next != Paid && next != Failed) {
		return s, errs.NewInvalidStateTransitionError("payment", s.String(), next.String())
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
