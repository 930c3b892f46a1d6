// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, authorization of the
// acting party, transaction management, and persistence.
package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order and delivery repositories within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
		DeliveryRepository() ports.DeliveryRepository
	}

	// PaymentRepoFactory provides access to payments and the ledger within a transaction.
	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
		LedgerRepository() ports.LedgerRepository
	}

	// SettlementRepoFactory provides access to settlement and fee rule repositories.
	SettlementRepoFactory interface {
		OwnerSettlementRepository() ports.OwnerSettlementRepository
		CourierSettlementRepository() ports.CourierSettlementRepository
		FeeRuleRepository() ports.FeeRuleRepository
	}

	// DirectoryFactory provides read access to stores and couriers managed outside the core.
	DirectoryFactory interface {
		StoreDirectory() ports.StoreDirectory
		CourierDirectory() ports.CourierDirectory
	}

	// UoW manages transactions across all marketplace aggregates.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   paymentRepo := uow.PaymentRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		PaymentRepoFactory
		SettlementRepoFactory
		DirectoryFactory
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)
