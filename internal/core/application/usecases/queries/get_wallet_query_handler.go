package queries

import (
	"context"
	"database/sql"
	"errors"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/wallet"
	"pickupoint/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WalletQueryHandler serves the wallet screens of couriers and relay owners.
//
// Example:
//
//	handler := NewWalletQueryHandler(db)
//	query, _ := NewGetWalletQuery(courierID, wallet.OwnerCourier)
//
//	w, err := handler.GetWallet(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // nothing earned yet
//	}
type WalletQueryHandler struct {
	db *gorm.DB
}

func NewWalletQueryHandler(db *gorm.DB) WalletQueryHandler {
	return WalletQueryHandler{db: db}
}

// GetWallet returns errs.ErrObjectNotFound until the first credit opens the wallet.
func (h WalletQueryHandler) GetWallet(ctx context.Context, query GetWalletQuery) (WalletView, error) {
	if err := query.Validate(); err != nil {
		return WalletView{}, err
	}

	view := WalletView{OwnerID: query.ownerID, OwnerKind: query.ownerKind}
	var id uuid.UUID

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			balance,
			pending,
			currency,
			updated_at
		FROM wallets
		WHERE owner_id = ? AND owner_kind = ?
	`, query.ownerID.String(), query.ownerKind.String()).
		Row().
		Scan(&id, &view.Balance, &view.Pending, &view.Currency, &view.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return WalletView{}, errs.NewObjectNotFoundError(query.ownerKind.String()+" wallet", query.ownerID.String())
	}
	if err != nil {
		return WalletView{}, err
	}

	if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return WalletView{}, err
	}
	view.UpdatedAt = view.UpdatedAt.UTC()
	return view, nil
}

// ListTransactions returns an empty list for an owner without a wallet.
func (h WalletQueryHandler) ListTransactions(ctx context.Context, query ListWalletTransactionsQuery) ([]TransactionView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	transactions := make([]TransactionView, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			t.id,
			t.parcel_id,
			t.amount,
			t.kind,
			t.description,
			t.created_at
		FROM wallet_transactions t
		JOIN wallets w ON w.id = t.wallet_id
		WHERE w.owner_id = ? AND w.owner_kind = ?
		ORDER BY t.created_at DESC
		LIMIT ?
	`, query.ownerID.String(), query.ownerKind.String(), query.limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tx       TransactionView
			id       uuid.UUID
			parcelID uuid.NullUUID
			kind     string
		)
		if err = rows.Scan(&id, &parcelID, &tx.Amount, &kind, &tx.Description, &tx.CreatedAt); err != nil {
			return nil, err
		}
		if tx.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if parcelID.Valid {
			pid, pidErr := kernel.UUIDFromBytes(parcelID.UUID[:])
			if pidErr != nil {
				return nil, pidErr
			}
			tx.ParcelID = &pid
		}
		if tx.Kind, err = wallet.ParseTxKind(kind); err != nil {
			return nil, err
		}
		tx.CreatedAt = tx.CreatedAt.UTC()
		transactions = append(transactions, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return transactions, nil
}
