package ledgerrepo_test

import (
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/dbtest"
	"marketplace/internal/adapters/out/postgres/ledgerrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormLedgerRepository_ListByRelated(t *testing.T) {
	ctx := t.Context()
	repo := ledgerrepo.NewGormLedgerRepository(dbtest.OpenSQLite(t))
	paymentID := kernel.NewUUID()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	charge, err := ledger.NewCompletedTransaction(ledger.TypeUserPayment, ledger.RelatedPayment, paymentID,
		28000, "krw", "imp_1", now)
	require.NoError(t, err)
	other, err := ledger.NewCompletedTransaction(ledger.TypeStorePayout, ledger.RelatedOwnerSettlement, kernel.NewUUID(),
		21750, "KRW", "tr_1", now)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, charge))
	require.NoError(t, repo.Add(ctx, other))

	got, err := repo.ListByRelated(ctx, ledger.RelatedPayment, paymentID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, charge.ID(), got[0].ID())
	assert.Equal(t, ledger.TypeUserPayment, got[0].Type())
	assert.Equal(t, int64(28000), got[0].Amount())
	assert.Equal(t, "KRW", got[0].Currency())
	assert.Equal(t, ledger.StatusCompleted, got[0].Status())
	assert.Equal(t, "imp_1", got[0].ExternalReference())
	require.NotNil(t, got[0].CompletedAt())
}
