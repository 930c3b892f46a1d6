package orderrepo_test

import (
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/dbtest"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		"221B Baker Street", 25000, 3000, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return o
}

func TestGormOrderRepository_AddAndGet(t *testing.T) {
	ctx := t.Context()
	tracker := new(MockAggregateTracker)
	repo := orderrepo.NewGormOrderRepository(dbtest.OpenSQLite(t), tracker)

	o := newOrder(t)
	tracker.On("TrackAggregate", o.ID(), o).Once()
	require.NoError(t, repo.Add(ctx, o))

	got, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.True(t, got.IsEqual(o))
	assert.Equal(t, o.BuyerID(), got.BuyerID())
	assert.Equal(t, o.StoreID(), got.StoreID())
	assert.Equal(t, "221B Baker Street", got.Address())
	assert.Equal(t, int64(28000), got.PayableAmount())
	assert.Equal(t, order.Pending, got.Status())
	assert.Equal(t, 0, got.Version())
	assert.True(t, o.CreatedAt().Equal(got.CreatedAt()))
	tracker.AssertExpectations(t)
}

func TestGormOrderRepository_Get_NotFound(t *testing.T) {
	repo := orderrepo.NewGormOrderRepository(dbtest.OpenSQLite(t), new(MockAggregateTracker))

	_, err := repo.Get(t.Context(), kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGormOrderRepository_Add_DuplicateID(t *testing.T) {
	ctx := t.Context()
	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	repo := orderrepo.NewGormOrderRepository(dbtest.OpenSQLite(t), tracker)

	o := newOrder(t)
	require.NoError(t, repo.Add(ctx, o))
	require.ErrorIs(t, repo.Add(ctx, o), errs.ErrObjectAlreadyExists)
}

func TestGormOrderRepository_Update_BumpsVersion(t *testing.T) {
	ctx := t.Context()
	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	repo := orderrepo.NewGormOrderRepository(dbtest.OpenSQLite(t), tracker)

	o := newOrder(t)
	require.NoError(t, repo.Add(ctx, o))

	require.NoError(t, o.StartCooking())
	require.NoError(t, repo.Update(ctx, o))
	assert.Equal(t, 1, o.Version())

	require.NoError(t, o.MarkCooked())
	require.NoError(t, repo.Update(ctx, o))
	assert.Equal(t, 2, o.Version())

	got, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Cooked, got.Status())
	assert.Equal(t, 2, got.Version())
}

func TestGormOrderRepository_Update_StaleVersionLoses(t *testing.T) {
	ctx := t.Context()
	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	repo := orderrepo.NewGormOrderRepository(dbtest.OpenSQLite(t), tracker)

	o := newOrder(t)
	require.NoError(t, repo.Add(ctx, o))

	first, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	second, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)

	require.NoError(t, first.Confirm())
	require.NoError(t, repo.Update(ctx, first))

	require.NoError(t, second.Reject("out of stock"))
	err = repo.Update(ctx, second)
	require.ErrorIs(t, err, errs.ErrConcurrentModification)
	assert.Equal(t, 0, second.Version())

	got, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, got.Status())
	assert.Empty(t, got.RejectReason())
}
