package errs

import (
	"errors"
	"fmt"
)

var (
	ErrForbidden              = errors.New("access is forbidden")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrGatewayCommunication   = errors.New("gateway communication failed")
	ErrObjectAlreadyExists    = errors.New("object already exists")
)

// ForbiddenError is returned when the acting party is not allowed to perform Action.
type ForbiddenError struct {
	Action string
	Cause  error
}

func NewForbiddenError(action string) *ForbiddenError {
	return &ForbiddenError{Action: action}
}

func NewForbiddenErrorWithCause(action string, cause error) *ForbiddenError {
	return &ForbiddenError{Action: action, Cause: cause}
}

func (e *ForbiddenError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrForbidden, sanitize(e.Action)), e.Cause)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// InvalidStateTransitionError is returned when Entity cannot move From one state To another.
type InvalidStateTransitionError struct {
	Entity string
	From   string
	To     string
	Cause  error
}

func NewInvalidStateTransitionError(entity, from, to string) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{Entity: entity, From: from, To: to}
}

func NewInvalidStateTransitionErrorWithCause(entity, from, to string, cause error) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{Entity: entity, From: from, To: to, Cause: cause}
}

func (e *InvalidStateTransitionError) Error() string {
	return withCause(fmt.Sprintf("%s: %s from %s to %s",
		ErrInvalidStateTransition,
		sanitize(e.Entity),
		sanitize(e.From),
		sanitize(e.To),
	), e.Cause)
}

func (e *InvalidStateTransitionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrInvalidStateTransition}
	}
	return []error{ErrInvalidStateTransition, e.Cause}
}

// ConcurrentModificationError is returned when a compare-and-set write loses a race.
type ConcurrentModificationError struct {
	Entity string
	ID     any
}

func NewConcurrentModificationError(entity string, id any) *ConcurrentModificationError {
	return &ConcurrentModificationError{Entity: entity, ID: id}
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrConcurrentModification, sanitize(e.Entity), sanitize(e.ID))
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}

// GatewayCommunicationError wraps transport-level failures of an external provider.
// Callers may retry the operation.
type GatewayCommunicationError struct {
	Operation string
	Cause     error
}

func NewGatewayCommunicationError(operation string, cause error) *GatewayCommunicationError {
	return &GatewayCommunicationError{Operation: operation, Cause: cause}
}

func (e *GatewayCommunicationError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrGatewayCommunication, sanitize(e.Operation)), e.Cause)
}

func (e *GatewayCommunicationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrGatewayCommunication}
	}
	return []error{ErrGatewayCommunication, e.Cause}
}

// ObjectAlreadyExistsError is returned when a unique key is already taken.
type ObjectAlreadyExistsError struct {
	ParamName string
	ID        any
}

func NewObjectAlreadyExistsError(paramName string, id any) *ObjectAlreadyExistsError {
	return &ObjectAlreadyExistsError{ParamName: paramName, ID: id}
}

func (e *ObjectAlreadyExistsError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrObjectAlreadyExists, sanitize(e.ParamName), sanitize(e.ID))
}

func (e *ObjectAlreadyExistsError) Unwrap() error {
	return ErrObjectAlreadyExists
}

// IsRetryable reports whether err is a transient failure worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrGatewayCommunication) || errors.Is(err, ErrConcurrentModification)
}
