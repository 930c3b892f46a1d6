package feerulerepo_test

import (
	"testing"

	"marketplace/internal/adapters/out/postgres/dbtest"
	"marketplace/internal/adapters/out/postgres/feerulerepo"
	"marketplace/internal/core/domain/model/feerule"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestGormFeeRuleRepository_ListActiveByCourier(t *testing.T) {
	ctx := t.Context()
	repo := feerulerepo.NewGormFeeRuleRepository(dbtest.OpenSQLite(t))
	courierID := kernel.NewUUID()

	near, err := feerule.NewRule(kernel.NewUUID(), courierID, 0, intPtr(3000), 3000, 0)
	require.NoError(t, err)
	far, err := feerule.NewRule(kernel.NewUUID(), courierID, 3000, nil, 4000, 500)
	require.NoError(t, err)
	retired, err := feerule.NewRule(kernel.NewUUID(), courierID, 5000, nil, 9000, 0)
	require.NoError(t, err)
	retired.Deactivate()
	foreign, err := feerule.NewRule(kernel.NewUUID(), kernel.NewUUID(), 0, nil, 1, 1)
	require.NoError(t, err)

	for _, r := range []*feerule.Rule{near, far, retired, foreign} {
		require.NoError(t, repo.Add(ctx, r))
	}

	active, err := repo.ListActiveByCourier(ctx, courierID)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, far.ID(), active[0].ID(), "rules are ordered by MinMeters descending")
	assert.Nil(t, active[0].MaxMeters())
	assert.Equal(t, near.ID(), active[1].ID())
	require.NotNil(t, active[1].MaxMeters())
	assert.Equal(t, 3000, *active[1].MaxMeters())
}

func TestGormFeeRuleRepository_UpdateAndDeactivate(t *testing.T) {
	ctx := t.Context()
	repo := feerulerepo.NewGormFeeRuleRepository(dbtest.OpenSQLite(t))

	rule, err := feerule.NewRule(kernel.NewUUID(), kernel.NewUUID(), 0, intPtr(2000), 2500, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, rule))

	require.NoError(t, rule.Update(0, nil, 2700, 100))
	require.NoError(t, repo.Update(ctx, rule))
	require.NoError(t, repo.Deactivate(ctx, rule.ID()))

	got, err := repo.Get(ctx, rule.ID())
	require.NoError(t, err)
	assert.False(t, got.IsActive())
	assert.Nil(t, got.MaxMeters())
	assert.Equal(t, int64(2700), got.BaseFee())
	assert.Equal(t, int64(100), got.PerKmFee())

	missing, err := feerule.NewRule(kernel.NewUUID(), kernel.NewUUID(), 0, nil, 1, 1)
	require.NoError(t, err)
	require.ErrorIs(t, repo.Update(ctx, missing), errs.ErrObjectNotFound)
	require.ErrorIs(t, repo.Deactivate(ctx, missing.ID()), errs.ErrObjectNotFound)
}

func TestGormFeeRuleRepository_UpdateFromStaleReadKeepsRuleInactive(t *testing.T) {
	ctx := t.Context()
	repo := feerulerepo.NewGormFeeRuleRepository(dbtest.OpenSQLite(t))
	courierID := kernel.NewUUID()

	rule, err := feerule.NewRule(kernel.NewUUID(), courierID, 0, intPtr(2000), 2500, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, rule))

	stale, err := repo.Get(ctx, rule.ID())
	require.NoError(t, err)
	require.True(t, stale.IsActive())

	require.NoError(t, repo.Deactivate(ctx, rule.ID()))

	require.NoError(t, stale.Update(0, intPtr(2500), 2600, 0))
	require.NoError(t, repo.Update(ctx, stale))

	got, err := repo.Get(ctx, rule.ID())
	require.NoError(t, err)
	assert.False(t, got.IsActive(), "an update must not revive a deactivated rule")
	assert.Equal(t, int64(2600), got.BaseFee())

	active, err := repo.ListActiveByCourier(ctx, courierID)
	require.NoError(t, err)
	assert.Empty(t, active)
}
