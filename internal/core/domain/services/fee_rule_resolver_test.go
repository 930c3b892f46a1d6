package services_test

import (
	"testing"

	"marketplace/internal/core/domain/model/feerule"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func newRule(t *testing.T, courierID kernel.UUID, minMeters int, maxMeters *int, base, perKm int64) *feerule.Rule {
	t.Helper()
	r, err := feerule.NewRule(kernel.NewUUID(), courierID, minMeters, maxMeters, base, perKm)
	require.NoError(t, err)
	return r
}

func TestFeeRuleResolver_Match(t *testing.T) {
	courierID := kernel.NewUUID()
	near := newRule(t, courierID, 0, intPtr(3000), 3000, 500)
	far := newRule(t, courierID, 3000, nil, 4000, 700)
	foreign := newRule(t, kernel.NewUUID(), 0, nil, 1, 1)
	rules := []*feerule.Rule{near, far, foreign}
	resolver := services.NewFeeRuleResolver()

	tests := []struct {
		name     string
		distance int
		want     *feerule.Rule
	}{
		{name: "lower bound is inclusive", distance: 0, want: near},
		{name: "just below upper bound", distance: 2999, want: near},
		{name: "upper bound is exclusive", distance: 3000, want: far},
		{name: "unbounded bucket", distance: 150000, want: far},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Match(courierID, rules, tt.distance)
			require.NoError(t, err)
			assert.True(t, got.ID().IsEqual(tt.want.ID()))
		})
	}

	t.Run("inactive rules are skipped", func(t *testing.T) {
		only := newRule(t, courierID, 0, nil, 100, 0)
		only.Deactivate()

		_, err := resolver.Match(courierID, []*feerule.Rule{only}, 10)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("greatest lower bound wins", func(t *testing.T) {
		wide := newRule(t, courierID, 0, nil, 1, 1)
		narrow := newRule(t, courierID, 1000, intPtr(2000), 2, 2)

		got, err := resolver.Match(courierID, []*feerule.Rule{wide, narrow}, 1500)
		require.NoError(t, err)
		assert.True(t, got.ID().IsEqual(narrow.ID()))
	})

	t.Run("no rule for courier", func(t *testing.T) {
		_, err := resolver.Match(kernel.NewUUID(), rules, 100)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestFeeRuleResolver_ValidateNoOverlap(t *testing.T) {
	courierID := kernel.NewUUID()
	first := newRule(t, courierID, 0, intPtr(3000), 3000, 500)
	second := newRule(t, courierID, 3000, intPtr(6000), 4000, 500)
	rules := []*feerule.Rule{first, second}
	resolver := services.NewFeeRuleResolver()

	t.Run("rejects range straddling two buckets", func(t *testing.T) {
		err := resolver.ValidateNoOverlap(courierID, rules, 2000, intPtr(4000), nil)
		require.ErrorIs(t, err, feerule.ErrOverlappingFeeRule)
	})

	t.Run("adjacent range is accepted", func(t *testing.T) {
		require.NoError(t, resolver.ValidateNoOverlap(courierID, rules, 6000, nil, nil))
	})

	t.Run("unbounded range overlaps later buckets", func(t *testing.T) {
		err := resolver.ValidateNoOverlap(courierID, rules, 5000, nil, nil)
		require.ErrorIs(t, err, feerule.ErrOverlappingFeeRule)
	})

	t.Run("excluded rule is ignored on update", func(t *testing.T) {
		id := first.ID()
		require.NoError(t, resolver.ValidateNoOverlap(courierID, rules, 0, intPtr(2500), &id))
	})

	t.Run("other couriers do not collide", func(t *testing.T) {
		require.NoError(t, resolver.ValidateNoOverlap(kernel.NewUUID(), rules, 0, nil, nil))
	})

	t.Run("inactive rules do not collide", func(t *testing.T) {
		old := newRule(t, courierID, 10000, nil, 1, 1)
		old.Deactivate()
		require.NoError(t, resolver.ValidateNoOverlap(courierID, []*feerule.Rule{old}, 12000, nil, nil))
	})
}
