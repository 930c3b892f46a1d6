package storerepo_test

import (
	"testing"

	"marketplace/internal/adapters/out/postgres/dbtest"
	"marketplace/internal/adapters/out/postgres/storerepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStoreDirectory_OwnerOf(t *testing.T) {
	ctx := t.Context()
	db := dbtest.OpenSQLite(t)
	storeID, ownerID := kernel.NewUUID(), kernel.NewUUID()
	require.NoError(t, db.Create(&storerepo.StoreDTO{ID: storeID.Bytes(), OwnerID: ownerID.Bytes()}).Error)

	directory := storerepo.NewGormStoreDirectory(db)
	got, err := directory.OwnerOf(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, got)

	_, err = directory.OwnerOf(ctx, kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
