package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Repositories returned after Begin share its transaction. Domain events of the
// aggregates written through them are published once Commit succeeds.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	PaymentRepository() PaymentRepository
	DeliveryRepository() DeliveryRepository
	LedgerRepository() LedgerRepository
	OwnerSettlementRepository() OwnerSettlementRepository
	CourierSettlementRepository() CourierSettlementRepository
	FeeRuleRepository() FeeRuleRepository
	StoreDirectory() StoreDirectory
	CourierDirectory() CourierDirectory
}
