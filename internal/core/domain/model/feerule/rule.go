// Package feerule models a courier's distance-bucketed fee schedule.
//
// A rule covers the half-open range [MinMeters, MaxMeters); a nil MaxMeters
// means the bucket is unbounded. Active rules of one courier never overlap.
package feerule

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var (
	ErrRuleIsNotConstructed = errors.New("Rule must be created via NewRule constructor")
	ErrOverlappingFeeRule   = errors.New("fee rule overlaps an active rule")
)

// Rule is one distance bucket of a courier's fee schedule.
type Rule struct {
	id        kernel.UUID
	courierID kernel.UUID
	minMeters int
	maxMeters *int
	baseFee   int64
	perKmFee  int64
	active    bool

	isConstructed bool
}

// NewRule creates an active rule.
func NewRule(id, courierID kernel.UUID, minMeters int, maxMeters *int, baseFee, perKmFee int64) (*Rule, error) {
	return RestoreRule(id, courierID, minMeters, maxMeters, baseFee, perKmFee, true)
}

func RestoreRule(
	id, courierID kernel.UUID,
	minMeters int,
	maxMeters *int,
	baseFee, perKmFee int64,
	active bool,
) (*Rule, error) {
	r := &Rule{active: active, isConstructed: true}
	if err := errors.Join(id.Validate(), courierID.Validate(), r.setTerms(minMeters, maxMeters, baseFee, perKmFee)); err != nil {
		return nil, err
	}
	r.id = id
	r.courierID = courierID
	return r, nil
}

func (r *Rule) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRuleIsNotConstructed
	}
	return nil
}

func (r *Rule) ID() kernel.UUID        { return r.id }
func (r *Rule) CourierID() kernel.UUID { return r.courierID }
func (r *Rule) MinMeters() int         { return r.minMeters }
func (r *Rule) MaxMeters() *int        { return r.maxMeters }
func (r *Rule) BaseFee() int64         { return r.baseFee }
func (r *Rule) PerKmFee() int64        { return r.perKmFee }
func (r *Rule) IsActive() bool         { return r.active }

// Covers reports whether distanceMeters falls into [min, max).
func (r *Rule) Covers(distanceMeters int) bool {
	return r.minMeters <= distanceMeters && (r.maxMeters == nil || distanceMeters < *r.maxMeters)
}

// Overlaps reports whether [minMeters, maxMeters) intersects this rule's range.
func (r *Rule) Overlaps(minMeters int, maxMeters *int) bool {
	startsBeforeOtherEnds := maxMeters == nil || r.minMeters < *maxMeters
	otherStartsBeforeEnd := r.maxMeters == nil || minMeters < *r.maxMeters
	return startsBeforeOtherEnds && otherStartsBeforeEnd
}

// Update replaces the bucket and fees.
func (r *Rule) Update(minMeters int, maxMeters *int, baseFee, perKmFee int64) error {
	return r.setTerms(minMeters, maxMeters, baseFee, perKmFee)
}

func (r *Rule) Deactivate() {
	r.active = false
}

func (r *Rule) setTerms(minMeters int, maxMeters *int, baseFee, perKmFee int64) error {
	var errList []error
	if minMeters < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("min meters", minMeters, 0, "unbounded"))
	}
	if maxMeters != nil && *maxMeters <= minMeters {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("max meters",
			fmt.Errorf("%d is not greater than min meters %d", *maxMeters, minMeters)))
	}
	if baseFee < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("base fee", fmt.Errorf("%d is negative", baseFee)))
	}
	if perKmFee < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("per km fee", fmt.Errorf("%d is negative", perKmFee)))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	r.minMeters = minMeters
	if maxMeters != nil {
		upper := *maxMeters
		r.maxMeters = &upper
	} else {
		r.maxMeters = nil
	}
	r.baseFee = baseFee
	r.perKmFee = perKmFee
	return nil
}
