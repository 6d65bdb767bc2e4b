package ports

import (
	"context"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/wallet"
)

// WalletRepository persists wallets together with their ledger lines.
type WalletRepository interface {
	Add(ctx context.Context, w *wallet.Wallet) error

	// Update is conditional on the loaded version.
	Update(ctx context.Context, w *wallet.Wallet) error

	Get(ctx context.Context, id kernel.UUID) (*wallet.Wallet, error)

	// GetByOwner returns errs.ErrObjectNotFound when the owner has no wallet yet.
	GetByOwner(ctx context.Context, ownerID kernel.UUID, kind wallet.OwnerKind) (*wallet.Wallet, error)

	AddTransaction(ctx context.Context, tx *wallet.Transaction) error
}

// SettlementRepository records which parcels had their revenue distributed.
type SettlementRepository interface {
	Exists(ctx context.Context, parcelID kernel.UUID) (bool, error)
	Add(ctx context.Context, s wallet.Settlement) error
}
