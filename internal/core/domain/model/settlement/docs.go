// Package settlement models the periodic payout of marketplace revenue to store
// owners and couriers.
//
// Each paid order (owner side) or completed delivery (courier side) produces one
// settlement item in PENDING. A settlement header batches the PENDING items of one
// party within a date period, moving them to INCLUDED, and a payout moves the
// header and its items to PAID.
//
// Item status: PENDING ──> INCLUDED ──> PAID, with PENDING | INCLUDED ──> CANCELED.
// Header status: CALCULATED ──> PAID | CANCELED.
package settlement
