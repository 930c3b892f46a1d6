package services

import (
	"fmt"
	"sort"

	"marketplace/internal/core/domain/model/feerule"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// FeeRuleResolver selects courier fee rules by distance.
type FeeRuleResolver struct{}

func NewFeeRuleResolver() FeeRuleResolver {
	return FeeRuleResolver{}
}

// Match returns the active rule of courierID covering distanceMeters.
// When several rules cover the distance the one with the greatest MinMeters wins.
func (FeeRuleResolver) Match(courierID kernel.UUID, rules []*feerule.Rule, distanceMeters int) (*feerule.Rule, error) {
	candidates := make([]*feerule.Rule, 0, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if r.IsActive() && r.CourierID().IsEqual(courierID) && r.Covers(distanceMeters) {
			candidates = append(candidates, r)
		}
	}

	if len(candidates) == 0 {
		return nil, errs.NewObjectNotFoundError("fee rule",
			fmt.Sprintf("courier %s, distance %dm", courierID, distanceMeters))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MinMeters() > candidates[j].MinMeters()
	})
	return candidates[0], nil
}

// ValidateNoOverlap rejects [minMeters, maxMeters) when it intersects an active
// rule of courierID. The rule identified by exclude is ignored so that updates
// do not collide with themselves.
func (FeeRuleResolver) ValidateNoOverlap(
	courierID kernel.UUID,
	rules []*feerule.Rule,
	minMeters int,
	maxMeters *int,
	exclude *kernel.UUID,
) error {
	for _, r := range rules {
		if !r.IsActive() || !r.CourierID().IsEqual(courierID) {
			continue
		}
		if exclude != nil && r.ID().IsEqual(*exclude) {
			continue
		}
		if r.Overlaps(minMeters, maxMeters) {
			return fmt.Errorf("%w: %s intersects rule %s %s",
				feerule.ErrOverlappingFeeRule, formatRange(minMeters, maxMeters), r.ID(), formatRange(r.MinMeters(), r.MaxMeters()))
		}
	}
	return nil
}

func formatRange(minMeters int, maxMeters *int) string {
	if maxMeters == nil {
		return fmt.Sprintf("[%d, inf)", minMeters)
	}
	return fmt.Sprintf("[%d, %d)", minMeters, *maxMeters)
}
