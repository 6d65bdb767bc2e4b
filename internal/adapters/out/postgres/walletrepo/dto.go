// Package walletrepo persists wallets, their ledger lines and the per-parcel
// settlement records that make revenue distribution idempotent.
package walletrepo

import (
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletDTO is one wallet per (owner, owner kind).
type WalletDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_wallet_owner"`
	OwnerKind string          `gorm:"size:16;not null;uniqueIndex:idx_wallet_owner"`
	Balance   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Pending   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency  string          `gorm:"size:3;not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime:false"`
	Version   int64
}

func (WalletDTO) TableName() string {
	return "wallets"
}

// TransactionDTO is an immutable ledger line.
type TransactionDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	WalletID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_wallet_tx_timeline,priority:1"`
	ParcelID    *uuid.UUID      `gorm:"type:uuid;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Kind        string          `gorm:"size:8;not null"`
	Description string
	CreatedAt   time.Time `gorm:"autoCreateTime:false;index:idx_wallet_tx_timeline,priority:2"`
}

func (TransactionDTO) TableName() string {
	return "wallet_transactions"
}

// SettlementDTO marks a parcel whose revenue has been distributed.
type SettlementDTO struct {
	ParcelID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Price            decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Platform         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	OriginRelay      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DestinationRelay decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Courier          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt        time.Time       `gorm:"autoCreateTime:false"`
}

func (SettlementDTO) TableName() string {
	return "settlements"
}

func fromDomain(w *wallet.Wallet) WalletDTO {
	return WalletDTO{
		ID:        w.ID().Bytes(),
		OwnerID:   w.OwnerID().Bytes(),
		OwnerKind: w.OwnerKind().String(),
		Balance:   w.Balance(),
		Pending:   w.Pending(),
		Currency:  w.Currency(),
		CreatedAt: w.CreatedAt(),
		UpdatedAt: w.UpdatedAt(),
		Version:   w.Version(),
	}
}

func toDomain(dto WalletDTO) (*wallet.Wallet, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	ownerID, err := kernel.UUIDFromGoogle(dto.OwnerID)
	if err != nil {
		return nil, err
	}
	kind, err := wallet.ParseOwnerKind(dto.OwnerKind)
	if err != nil {
		return nil, err
	}
	return wallet.RestoreWallet(id, ownerID, kind, dto.Balance, dto.Pending, dto.Currency,
		dto.CreatedAt.UTC(), dto.UpdatedAt.UTC(), dto.Version)
}

func transactionFromDomain(tx *wallet.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:          tx.ID.Bytes(),
		WalletID:    tx.WalletID.Bytes(),
		ParcelID:    kernel.OptionalToGoogle(tx.ParcelID),
		Amount:      tx.Amount,
		Kind:        tx.Kind.String(),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
}

// TransactionToDomain maps a ledger row back; the wallet queries read rows
// directly and reuse it.
func TransactionToDomain(dto TransactionDTO) (wallet.Transaction, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return wallet.Transaction{}, err
	}
	walletID, err := kernel.UUIDFromGoogle(dto.WalletID)
	if err != nil {
		return wallet.Transaction{}, err
	}
	parcelID, err := kernel.OptionalUUIDFromGoogle(dto.ParcelID)
	if err != nil {
		return wallet.Transaction{}, err
	}
	kind, err := wallet.ParseTxKind(dto.Kind)
	if err != nil {
		return wallet.Transaction{}, err
	}
	return wallet.Transaction{
		ID:          id,
		WalletID:    walletID,
		ParcelID:    parcelID,
		Amount:      dto.Amount,
		Kind:        kind,
		Description: dto.Description,
		CreatedAt:   dto.CreatedAt.UTC(),
	}, nil
}
