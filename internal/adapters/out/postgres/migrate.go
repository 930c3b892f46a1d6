package postgres

import (
	"marketplace/internal/adapters/out/postgres/courierrepo"
	"marketplace/internal/adapters/out/postgres/deliveryrepo"
	"marketplace/internal/adapters/out/postgres/feerulerepo"
	"marketplace/internal/adapters/out/postgres/ledgerrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/paymentrepo"
	"marketplace/internal/adapters/out/postgres/settlementrepo"
	"marketplace/internal/adapters/out/postgres/storerepo"

	"gorm.io/gorm"
)

// Models lists every persisted row type in migration order.
func Models() []any {
	return []any{
		&storerepo.StoreDTO{},
		&courierrepo.CourierDTO{},
		&orderrepo.OrderDTO{},
		&paymentrepo.PaymentDTO{},
		&deliveryrepo.DeliveryDTO{},
		&ledgerrepo.TransactionDTO{},
		&feerulerepo.RuleDTO{},
		&settlementrepo.OwnerSettlementDTO{},
		&settlementrepo.OwnerItemDTO{},
		&settlementrepo.CourierSettlementDTO{},
		&settlementrepo.CourierItemDTO{},
	}
}

// Migrate creates or alters the tables of all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Tables lists the table names of Models, used to truncate between tests.
func Tables() []string {
	return []string{
		"stores", "couriers", "orders", "payments", "deliveries", "ledger_transactions",
		"courier_fee_rules", "owner_settlements", "owner_settlement_items",
		"courier_settlements", "courier_settlement_items",
	}
}
