// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// persistence, and side effects that run only after commit.
package commands

import (
	"context"

	"pickupoint/internal/core/ports"
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

	// ParcelRepoFactory provides the parcel repository and its audit log
	// within a transaction.
	ParcelRepoFactory interface {
		ParcelRepository() ports.ParcelRepository
		EventLog() ports.EventLog
	}

	// DispatchRepoFactory provides what mission dispatch reads and writes.
	DispatchRepoFactory interface {
		MissionRepository() ports.MissionRepository
		CourierRepository() ports.CourierRepository
		RelayRepository() ports.RelayRepository
	}

	// LedgerRepoFactory provides wallet and settlement access within a transaction.
	LedgerRepoFactory interface {
		WalletRepository() ports.WalletRepository
		SettlementRepository() ports.SettlementRepository
	}

	// CourierRepoFactory provides access to courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// RelayRepoFactory provides access to relay repository within a transaction.
	RelayRepoFactory interface {
		RelayRepository() ports.RelayRepository
	}

	// PricingRepoFactory provides access to the tariffs within a transaction.
	PricingRepoFactory interface {
		PricingRepository() ports.PricingRepository
	}

	// CourierUoW manages transactions for courier-only operations.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// RelayUoW manages transactions for relay-only operations.
	RelayUoW interface {
		TxManager
		RelayRepoFactory
	}

	// RelayUoWFactory creates new relay unit of work instances.
	RelayUoWFactory interface {
		Create() RelayUoW
	}

	// PricingUoW manages transactions for tariff administration.
	PricingUoW interface {
		TxManager
		PricingRepoFactory
	}

	// PricingUoWFactory creates new pricing unit of work instances.
	PricingUoWFactory interface {
		Create() PricingUoW
	}

	// WalletUoW manages transactions for wallet-only operations.
	WalletUoW interface {
		TxManager
		WalletRepository() ports.WalletRepository
	}

	// WalletUoWFactory creates new wallet unit of work instances.
	WalletUoWFactory interface {
		Create() WalletUoW
	}

	// UoW manages transactions across parcels, missions and the ledger.
	// Used for commands whose side effects span several aggregates: a status
	// change that creates a mission, or a delivery that pays out.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   parcels := uow.ParcelRepository()
	//   missions := uow.MissionRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		ParcelRepoFactory
		DispatchRepoFactory
		LedgerRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
