package settlementrepo_test

import (
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/dbtest"
	"marketplace/internal/adapters/out/postgres/settlementrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

var day = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func newTracker() *MockAggregateTracker {
	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	return tracker
}

func newPeriod(t *testing.T) settlement.Period {
	t.Helper()
	period, err := settlement.NewPeriod(day, day)
	require.NoError(t, err)
	return period
}

func newOwnerItem(t *testing.T, ownerID kernel.UUID, paidAt time.Time, gross int64) *settlement.OwnerItem {
	t.Helper()
	platformFee, pgFee := gross/10, gross*3/100
	item, err := settlement.NewOwnerItem(
		kernel.NewUUID(), ownerID, kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		paidAt,
		settlement.Breakdown{Gross: gross, PlatformFee: platformFee, PgFee: pgFee, Net: gross - platformFee - pgFee},
	)
	require.NoError(t, err)
	return item
}

func newCourierItem(t *testing.T, courierID kernel.UUID, completedAt time.Time) *settlement.CourierItem {
	t.Helper()
	item, err := settlement.NewCourierItem(
		kernel.NewUUID(), courierID, kernel.NewUUID(), completedAt, 2500,
		settlement.FeeSnapshot{RuleID: kernel.NewUUID(), BaseFee: 3000, PerKmFee: 500},
		4250,
	)
	require.NoError(t, err)
	return item
}

func ids[T interface{ ID() kernel.UUID }](items []T) []kernel.UUID {
	out := make([]kernel.UUID, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID())
	}
	return out
}

func seedOwnerItems(t *testing.T, db *gorm.DB, items ...*settlement.OwnerItem) *settlementrepo.GormOwnerSettlementRepository {
	t.Helper()
	repo := settlementrepo.NewGormOwnerSettlementRepository(db, newTracker())
	for _, item := range items {
		require.NoError(t, repo.AddItem(t.Context(), item))
	}
	return repo
}

func TestGormOwnerSettlementRepository_AddItem_OnePerOrder(t *testing.T) {
	ctx := t.Context()
	ownerID := kernel.NewUUID()
	item := newOwnerItem(t, ownerID, day.Add(time.Hour), 25000)
	repo := seedOwnerItems(t, dbtest.OpenSQLite(t), item)

	duplicate, err := settlement.NewOwnerItem(
		kernel.NewUUID(), ownerID, item.StoreID(), item.OrderID(), item.PaymentID(), item.PaidAt(), item.Amounts())
	require.NoError(t, err)
	require.ErrorIs(t, repo.AddItem(ctx, duplicate), errs.ErrObjectAlreadyExists)

	got, err := repo.GetItemByOrderID(ctx, item.OrderID())
	require.NoError(t, err)
	assert.Equal(t, item.ID(), got.ID())
	assert.Equal(t, settlement.Breakdown{Gross: 25000, PlatformFee: 2500, PgFee: 750, Net: 21750}, got.Amounts())
	assert.Equal(t, settlement.ItemPending, got.Status())
	assert.Nil(t, got.SettlementID())
}

func TestGormOwnerSettlementRepository_ListPending_RespectsPeriodAndOwner(t *testing.T) {
	ctx := t.Context()
	ownerID, otherOwner := kernel.NewUUID(), kernel.NewUUID()
	inside := newOwnerItem(t, ownerID, day.Add(23*time.Hour+59*time.Minute), 10000)
	early := newOwnerItem(t, ownerID, day.Add(-time.Second), 10000)
	late := newOwnerItem(t, ownerID, day.AddDate(0, 0, 1), 10000)
	foreign := newOwnerItem(t, otherOwner, day.Add(time.Hour), 10000)
	repo := seedOwnerItems(t, dbtest.OpenSQLite(t), inside, early, late, foreign)

	pending, err := repo.ListPendingItems(ctx, ownerID, newPeriod(t))
	require.NoError(t, err)
	assert.Equal(t, []kernel.UUID{inside.ID()}, ids(pending))

	owners, err := repo.ListOwnersWithPendingItems(ctx, newPeriod(t))
	require.NoError(t, err)
	assert.ElementsMatch(t, []kernel.UUID{ownerID, otherOwner}, owners)
}

func TestGormOwnerSettlementRepository_ClaimThenCancel(t *testing.T) {
	ctx := t.Context()
	ownerID := kernel.NewUUID()
	items := []*settlement.OwnerItem{
		newOwnerItem(t, ownerID, day.Add(time.Hour), 10000),
		newOwnerItem(t, ownerID, day.Add(2*time.Hour), 20000),
	}
	repo := seedOwnerItems(t, dbtest.OpenSQLite(t), items...)

	s, err := settlement.NewOwnerSettlement(kernel.NewUUID(), ownerID, newPeriod(t), items, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, s))

	claimed, err := repo.ClaimItems(ctx, s.ID(), ids(items))
	require.NoError(t, err)
	assert.Equal(t, int64(2), claimed)

	again, err := repo.ClaimItems(ctx, kernel.NewUUID(), ids(items))
	require.NoError(t, err)
	assert.Zero(t, again, "included items must not be claimed twice")

	listed, err := repo.ListItems(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, ids(items), ids(listed))
	for _, item := range listed {
		assert.Equal(t, settlement.ItemIncluded, item.Status())
	}

	header, err := repo.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(26100), header.Totals().Net)
	assert.Equal(t, 2, header.ItemCount())
	assert.Equal(t, newPeriod(t), header.Period())

	canceled, err := repo.CancelItems(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(2), canceled)

	listed, err = repo.ListItems(ctx, s.ID())
	require.NoError(t, err)
	for _, item := range listed {
		assert.Equal(t, settlement.ItemCanceled, item.Status())
	}

	pending, err := repo.ListPendingItems(ctx, ownerID, newPeriod(t))
	require.NoError(t, err)
	assert.Empty(t, pending, "canceled items never return to PENDING")

	again, err = repo.ClaimItems(ctx, kernel.NewUUID(), ids(items))
	require.NoError(t, err)
	assert.Zero(t, again)

	paid, err := repo.MarkItemsPaid(ctx, s.ID())
	require.NoError(t, err)
	assert.Zero(t, paid)
}

func TestGormOwnerSettlementRepository_Update_HeaderLeavesCalculatedOnce(t *testing.T) {
	ctx := t.Context()
	ownerID := kernel.NewUUID()
	items := []*settlement.OwnerItem{newOwnerItem(t, ownerID, day.Add(time.Hour), 10000)}
	repo := seedOwnerItems(t, dbtest.OpenSQLite(t), items...)

	s, err := settlement.NewOwnerSettlement(kernel.NewUUID(), ownerID, newPeriod(t), items, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, s))
	_, err = repo.ClaimItems(ctx, s.ID(), ids(items))
	require.NoError(t, err)

	first, err := repo.Get(ctx, s.ID())
	require.NoError(t, err)
	second, err := repo.Get(ctx, s.ID())
	require.NoError(t, err)

	paid, err := first.MarkPaid("tr_1", time.Now())
	require.NoError(t, err)
	require.True(t, paid)
	require.NoError(t, repo.Update(ctx, first))
	marked, err := repo.MarkItemsPaid(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	require.NoError(t, second.Cancel())
	require.ErrorIs(t, repo.Update(ctx, second), errs.ErrConcurrentModification)

	got, err := repo.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, settlement.StatusPaid, got.Status())
	assert.Equal(t, "tr_1", got.ExternalTransferID())
}

func TestGormCourierSettlementRepository_Lifecycle(t *testing.T) {
	ctx := t.Context()
	db := dbtest.OpenSQLite(t)
	repo := settlementrepo.NewGormCourierSettlementRepository(db, newTracker())
	courierID := kernel.NewUUID()

	items := []*settlement.CourierItem{
		newCourierItem(t, courierID, day.Add(8*time.Hour)),
		newCourierItem(t, courierID, day.Add(9*time.Hour)),
	}
	for _, item := range items {
		require.NoError(t, repo.AddItem(ctx, item))
	}
	dup, err := settlement.NewCourierItem(kernel.NewUUID(), courierID, items[0].DeliveryID(),
		items[0].CompletedAt(), 100, items[0].Fee(), 10)
	require.NoError(t, err)
	require.ErrorIs(t, repo.AddItem(ctx, dup), errs.ErrObjectAlreadyExists)

	couriers, err := repo.ListCouriersWithPendingItems(ctx, newPeriod(t))
	require.NoError(t, err)
	assert.Equal(t, []kernel.UUID{courierID}, couriers)

	pending, err := repo.ListPendingItems(ctx, courierID, newPeriod(t))
	require.NoError(t, err)
	require.Len(t, pending, 2)

	s, err := settlement.NewCourierSettlement(kernel.NewUUID(), courierID, newPeriod(t), pending, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, s))
	claimed, err := repo.ClaimItems(ctx, s.ID(), ids(pending))
	require.NoError(t, err)
	assert.Equal(t, int64(2), claimed)

	header, err := repo.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(8500), header.TotalEarning())

	item, err := repo.GetItemByDeliveryID(ctx, items[1].DeliveryID())
	require.NoError(t, err)
	assert.Equal(t, settlement.ItemIncluded, item.Status())
	require.NotNil(t, item.SettlementID())
	assert.Equal(t, s.ID(), *item.SettlementID())
	assert.Equal(t, items[1].Fee(), item.Fee())
}
