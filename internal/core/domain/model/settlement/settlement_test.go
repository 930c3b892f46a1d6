package settlement_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march = func() settlement.Period {
	p, err := settlement.NewPeriod(
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		panic(err)
	}
	return p
}()

func ownerItem(t *testing.T, ownerID kernel.UUID, paidAt time.Time, gross int64) *settlement.OwnerItem {
	t.Helper()
	item, err := settlement.NewOwnerItem(
		kernel.NewUUID(), ownerID, kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		paidAt,
		settlement.Breakdown{Gross: gross, PlatformFee: gross / 10, PgFee: gross / 50, Net: gross - gross/10 - gross/50},
	)
	require.NoError(t, err)
	return item
}

func courierItem(t *testing.T, courierID kernel.UUID, completedAt time.Time, earning int64) *settlement.CourierItem {
	t.Helper()
	item, err := settlement.NewCourierItem(
		kernel.NewUUID(), courierID, kernel.NewUUID(),
		completedAt, 2500,
		settlement.FeeSnapshot{RuleID: kernel.NewUUID(), BaseFee: 3000, PerKmFee: 500},
		earning,
	)
	require.NoError(t, err)
	return item
}

func TestPeriod(t *testing.T) {
	t.Run("end date is inclusive", func(t *testing.T) {
		assert.True(t, march.Contains(time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)))
		assert.False(t, march.Contains(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
		assert.True(t, march.Contains(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
		assert.False(t, march.Contains(time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)))
	})

	t.Run("bounds are truncated to date", func(t *testing.T) {
		p, err := settlement.NewPeriod(
			time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-01..2025-03-01", p.String())
		assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), p.EndExclusive())
	})

	t.Run("rejects reversed range", func(t *testing.T) {
		_, err := settlement.NewPeriod(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects zero bounds", func(t *testing.T) {
		_, err := settlement.NewPeriod(time.Time{}, time.Now())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestBreakdown_Validate(t *testing.T) {
	require.NoError(t, settlement.Breakdown{Gross: 10000, PlatformFee: 1000, PgFee: 300, Net: 8700}.Validate())
	require.ErrorIs(t, settlement.Breakdown{Gross: 10000, PlatformFee: 1000, PgFee: 300, Net: 9000}.Validate(), errs.ErrValueIsInvalid)
	require.ErrorIs(t, settlement.Breakdown{Gross: -1, Net: -1}.Validate(), errs.ErrValueIsInvalid)
}

func TestNewOwnerSettlement(t *testing.T) {
	ownerID := kernel.NewUUID()
	paidAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("sums items and includes them", func(t *testing.T) {
		items := []*settlement.OwnerItem{
			ownerItem(t, ownerID, paidAt, 10000),
			ownerItem(t, ownerID, paidAt.Add(time.Hour), 20000),
		}
		id := kernel.NewUUID()

		s, err := settlement.NewOwnerSettlement(id, ownerID, march, items, time.Now())
		require.NoError(t, err)

		assert.Equal(t, settlement.StatusCalculated, s.Status())
		assert.Equal(t, 2, s.ItemCount())
		assert.Equal(t, int64(30000), s.Totals().Gross)
		assert.Equal(t, int64(3000), s.Totals().PlatformFee)
		assert.Equal(t, int64(600), s.Totals().PgFee)
		assert.Equal(t, int64(26400), s.Totals().Net)
		for _, item := range items {
			assert.Equal(t, settlement.ItemIncluded, item.Status())
			require.NotNil(t, item.SettlementID())
			assert.True(t, item.SettlementID().IsEqual(id))
		}
	})

	t.Run("empty batch is nothing to settle", func(t *testing.T) {
		_, err := settlement.NewOwnerSettlement(kernel.NewUUID(), ownerID, march, nil, time.Now())
		require.ErrorIs(t, err, settlement.ErrNothingToSettle)
	})

	t.Run("rejects item of another owner without touching the batch", func(t *testing.T) {
		mine := ownerItem(t, ownerID, paidAt, 10000)
		other := ownerItem(t, kernel.NewUUID(), paidAt, 10000)

		_, err := settlement.NewOwnerSettlement(kernel.NewUUID(), ownerID, march, []*settlement.OwnerItem{mine, other}, time.Now())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, settlement.ItemPending, mine.Status())
	})

	t.Run("rejects item outside period", func(t *testing.T) {
		late := ownerItem(t, ownerID, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 10000)

		_, err := settlement.NewOwnerSettlement(kernel.NewUUID(), ownerID, march, []*settlement.OwnerItem{late}, time.Now())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects already included item", func(t *testing.T) {
		item := ownerItem(t, ownerID, paidAt, 10000)
		_, err := settlement.NewOwnerSettlement(kernel.NewUUID(), ownerID, march, []*settlement.OwnerItem{item}, time.Now())
		require.NoError(t, err)

		_, err = settlement.NewOwnerSettlement(kernel.NewUUID(), ownerID, march, []*settlement.OwnerItem{item}, time.Now())
		require.ErrorIs(t, err, settlement.ErrItemsAlreadyClaimed)
	})
}

func TestOwnerSettlement_MarkPaid(t *testing.T) {
	ownerID := kernel.NewUUID()
	s, err := settlement.NewOwnerSettlement(kernel.NewUUID(), ownerID, march,
		[]*settlement.OwnerItem{ownerItem(t, ownerID, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), 10000)}, time.Now())
	require.NoError(t, err)

	changed, err := s.MarkPaid("tr_001", time.Now())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, settlement.StatusPaid, s.Status())
	assert.Equal(t, "tr_001", s.ExternalTransferID())
	require.NotNil(t, s.PaidAt())
	require.Len(t, s.GetDomainEvents(), 1)

	event, ok := s.GetDomainEvents()[0].(settlement.PaidEvent)
	require.True(t, ok)
	assert.Equal(t, settlement.PartyOwner, event.Party)
	assert.Equal(t, int64(8800), event.Amount)

	changed, err = s.MarkPaid("tr_002", time.Now())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "tr_001", s.ExternalTransferID())
	assert.Len(t, s.GetDomainEvents(), 1)

	require.ErrorIs(t, s.Cancel(), errs.ErrInvalidStateTransition)
}

func TestOwnerSettlement_Cancel(t *testing.T) {
	ownerID := kernel.NewUUID()
	item := ownerItem(t, ownerID, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), 10000)
	s, err := settlement.NewOwnerSettlement(kernel.NewUUID(), ownerID, march, []*settlement.OwnerItem{item}, time.Now())
	require.NoError(t, err)

	require.NoError(t, s.Cancel())
	require.NoError(t, item.Cancel())
	assert.Equal(t, settlement.StatusCanceled, s.Status())
	assert.Equal(t, settlement.ItemCanceled, item.Status())
	require.NotNil(t, item.SettlementID())
	assert.Equal(t, s.ID(), *item.SettlementID())

	require.ErrorIs(t, item.Include(kernel.NewUUID()), errs.ErrInvalidStateTransition)
	require.ErrorIs(t, item.MarkPaid(), errs.ErrInvalidStateTransition)
	assert.Equal(t, settlement.ItemCanceled, item.Status())

	_, err = s.MarkPaid("tr", time.Now())
	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
}

func TestItemTransitions(t *testing.T) {
	item := ownerItem(t, kernel.NewUUID(), time.Now(), 1000)

	require.ErrorIs(t, item.MarkPaid(), errs.ErrInvalidStateTransition)
	require.NoError(t, item.Include(kernel.NewUUID()))
	require.ErrorIs(t, item.Include(kernel.NewUUID()), errs.ErrInvalidStateTransition)
	require.NoError(t, item.MarkPaid())
	require.ErrorIs(t, item.Cancel(), errs.ErrInvalidStateTransition)
	assert.Equal(t, settlement.ItemPaid, item.Status())

	pending := ownerItem(t, kernel.NewUUID(), time.Now(), 1000)
	require.NoError(t, pending.Cancel())
	assert.Equal(t, settlement.ItemCanceled, pending.Status())
	assert.Nil(t, pending.SettlementID())
}

func TestRestoreOwnerItem_RequiresSettlementWhenIncluded(t *testing.T) {
	_, err := settlement.RestoreOwnerItem(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		time.Now(), settlement.Breakdown{Gross: 100, Net: 100}, nil, settlement.ItemIncluded,
	)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestCourierSettlement(t *testing.T) {
	courierID := kernel.NewUUID()
	completedAt := time.Date(2025, 3, 20, 18, 30, 0, 0, time.UTC)
	items := []*settlement.CourierItem{
		courierItem(t, courierID, completedAt, 4250),
		courierItem(t, courierID, completedAt.Add(time.Hour), 3500),
	}

	s, err := settlement.NewCourierSettlement(kernel.NewUUID(), courierID, march, items, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(7750), s.TotalEarning())
	assert.Equal(t, 2, s.ItemCount())

	changed, err := s.MarkPaid("tr_c", time.Now())
	require.NoError(t, err)
	assert.True(t, changed)

	event := s.GetDomainEvents()[0].(settlement.PaidEvent)
	assert.Equal(t, settlement.PartyCourier, event.Party)
	assert.Equal(t, courierID.String(), event.PartyID)

	t.Run("rejects negative earning", func(t *testing.T) {
		_, err := settlement.NewCourierItem(kernel.NewUUID(), courierID, kernel.NewUUID(), completedAt, 100,
			settlement.FeeSnapshot{RuleID: kernel.NewUUID()}, -1)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
