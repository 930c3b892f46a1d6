// Package errs holds the error types shared by the domain, the use cases and
// the adapters.
//
// Every type unwraps to a sentinel (ErrObjectNotFound, ErrForbidden,
// ErrInvalidStateTransition, ...) so callers classify with errors.Is and read
// details with errors.As. The HTTP adapter maps the sentinels to status codes.
//
// GatewayCommunicationError and ConcurrentModificationError are transient; see
// IsRetryable.
package errs
