// Package order implements the Order aggregate and its lifecycle.
//
// Status graph:
//
//	PENDING ──(payment confirmed)──> CONFIRMED
//	PENDING | CONFIRMED ──> COOKING ──> COOKED ──> DELIVERED
//	PENDING | CONFIRMED ──> REJECTED
//
// CONFIRMED means "PENDING and paid": every store transition legal from PENDING is
// legal from CONFIRMED, and only the payment flow may move PENDING to CONFIRMED.
// A transition attempted from any other state fails with
// errs.ErrInvalidStateTransition and leaves the order untouched.
package order
