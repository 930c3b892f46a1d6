package services

import (
	"fmt"

	"marketplace/internal/core/domain/model/feerule"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var metersPerKm = decimal.NewFromInt(1000)

// FeePolicy holds the marketplace commission rates.
// Amounts are rounded half-up to whole minor units.
type FeePolicy struct {
	platformFeeRate decimal.Decimal
	pgFeeRate       decimal.Decimal
}

// NewFeePolicy validates that each rate is in [0, 1) and that together they leave a positive net.
func NewFeePolicy(platformFeeRate, pgFeeRate decimal.Decimal) (FeePolicy, error) {
	one := decimal.NewFromInt(1)
	for name, rate := range map[string]decimal.Decimal{"platform fee rate": platformFeeRate, "pg fee rate": pgFeeRate} {
		if rate.IsNegative() || rate.GreaterThanOrEqual(one) {
			return FeePolicy{}, errs.NewValueIsOutOfRangeError(name, rate.String(), "0", "1 (exclusive)")
		}
	}
	if platformFeeRate.Add(pgFeeRate).GreaterThanOrEqual(one) {
		return FeePolicy{}, errs.NewValueIsInvalidErrorWithCause("fee rates",
			fmt.Errorf("platform %s + pg %s must be below 1", platformFeeRate, pgFeeRate))
	}
	return FeePolicy{platformFeeRate: platformFeeRate, pgFeeRate: pgFeeRate}, nil
}

func (p FeePolicy) PlatformFeeRate() decimal.Decimal { return p.platformFeeRate }
func (p FeePolicy) PgFeeRate() decimal.Decimal       { return p.pgFeeRate }

// OwnerBreakdown splits the food value of a paid order.
func (p FeePolicy) OwnerBreakdown(gross int64) (settlement.Breakdown, error) {
	if gross < 0 {
		return settlement.Breakdown{}, errs.NewValueIsInvalidErrorWithCause("gross", fmt.Errorf("%d is negative", gross))
	}
	amount := decimal.NewFromInt(gross)
	platformFee := roundHalfUp(amount.Mul(p.platformFeeRate))
	pgFee := roundHalfUp(amount.Mul(p.pgFeeRate))

	return settlement.Breakdown{
		Gross:       gross,
		PlatformFee: platformFee,
		PgFee:       pgFee,
		Net:         gross - platformFee - pgFee,
	}, nil
}

// CourierEarning prices a trip as base + perKm * meters / 1000.
func (p FeePolicy) CourierEarning(rule *feerule.Rule, distanceMeters int) (int64, error) {
	if err := rule.Validate(); err != nil {
		return 0, err
	}
	if distanceMeters < 0 {
		return 0, errs.NewValueIsOutOfRangeError("distance meters", distanceMeters, 0, "unbounded")
	}
	variable := decimal.NewFromInt(rule.PerKmFee()).
		Mul(decimal.NewFromInt(int64(distanceMeters))).
		Div(metersPerKm)
	return rule.BaseFee() + roundHalfUp(variable), nil
}

// roundHalfUp rounds non-negative amounts; decimal.Round rounds half away from zero.
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
