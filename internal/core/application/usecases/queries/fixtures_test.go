package queries_test

import (
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/dbtest"
	"marketplace/internal/adapters/out/postgres/deliveryrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/paymentrepo"
	"marketplace/internal/adapters/out/postgres/storerepo"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/payment"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// noopTracker satisfies the repositories' aggregate tracker; queries never publish events.
type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

var placedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func mustActor(t *testing.T, role kernel.Role, id kernel.UUID) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(role, id)
	require.NoError(t, err)
	return actor
}

type fixture struct {
	db       *gorm.DB
	ownerID  kernel.UUID
	order    *order.Order
	delivery *delivery.Delivery
}

// seedOrder stores a store, a PENDING order and its PENDING delivery.
func seedOrder(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	ctx := t.Context()

	ownerID, storeID := kernel.NewUUID(), kernel.NewUUID()
	require.NoError(t, db.Create(&storerepo.StoreDTO{ID: storeID.Bytes(), OwnerID: ownerID.Bytes()}).Error)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), storeID, "12 Main St", 25000, 3000, placedAt)
	require.NoError(t, err)
	require.NoError(t, orderrepo.NewGormOrderRepository(db, noopTracker{}).Add(ctx, o))

	d, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), 2500, 20*time.Minute)
	require.NoError(t, err)
	require.NoError(t, deliveryrepo.NewGormDeliveryRepository(db, noopTracker{}).Add(ctx, d))

	return fixture{db: db, ownerID: ownerID, order: o, delivery: d}
}

func seedPayment(t *testing.T, db *gorm.DB, o *order.Order) *payment.Payment {
	t.Helper()
	ref, err := payment.NewMerchantReference(o.ID())
	require.NoError(t, err)
	p, err := payment.NewPayment(kernel.NewUUID(), o.ID(), o.PayableAmount(), "card", ref, placedAt)
	require.NoError(t, err)
	require.NoError(t, paymentrepo.NewGormPaymentRepository(db, noopTracker{}).Add(t.Context(), p))
	return p
}

func newDB(t *testing.T) *gorm.DB {
	return dbtest.OpenSQLite(t)
}
