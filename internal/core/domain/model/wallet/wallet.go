// Package wallet keeps the earnings of couriers and relay owners.
//
// Every balance change is recorded as a Transaction; the balance is always the
// running sum of the wallet's transactions and never goes below zero.
package wallet

import (
	"errors"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency of every wallet.
const DefaultCurrency = "XOF"

var ErrWalletIsNotConstructed = errors.New("Wallet must be created via NewWallet or RestoreWallet")

type Wallet struct {
	id        kernel.UUID
	ownerID   kernel.UUID
	ownerKind OwnerKind
	balance   decimal.Decimal
	pending   decimal.Decimal
	currency  string
	createdAt time.Time
	updatedAt time.Time
	version   int64
	guard     guard.ConstructorGuard
}

// Transaction is an immutable ledger line. Amount is signed: positive for
// credits, negative for debits.
type Transaction struct {
	ID          kernel.UUID
	WalletID    kernel.UUID
	ParcelID    *kernel.UUID
	Amount      decimal.Decimal
	Kind        TxKind
	Description string
	CreatedAt   time.Time
}

// NewWallet opens an empty wallet for an owner.
func NewWallet(ownerID kernel.UUID, kind OwnerKind, now time.Time) (*Wallet, error) {
	if err := errors.Join(ownerID.Validate(), kind.Validate()); err != nil {
		return nil, err
	}
	return &Wallet{
		id:        kernel.NewUUID(),
		ownerID:   ownerID,
		ownerKind: kind,
		balance:   decimal.Zero,
		pending:   decimal.Zero,
		currency:  DefaultCurrency,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func RestoreWallet(
	id, ownerID kernel.UUID,
	kind OwnerKind,
	balance, pending decimal.Decimal,
	currency string,
	createdAt, updatedAt time.Time,
	version int64,
) (*Wallet, error) {
	if err := errors.Join(id.Validate(), ownerID.Validate(), kind.Validate()); err != nil {
		return nil, err
	}
	if balance.IsNegative() {
		return nil, errs.NewValueIsOutOfRangeError("balance", balance, 0, "-")
	}
	return &Wallet{
		id:        id,
		ownerID:   ownerID,
		ownerKind: kind,
		balance:   balance,
		pending:   pending,
		currency:  currency,
		createdAt: createdAt,
		updatedAt: updatedAt,
		version:   version,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (w *Wallet) Validate() error {
	if w == nil {
		return ErrWalletIsNotConstructed
	}
	return w.guard.Validate(ErrWalletIsNotConstructed)
}

func (w *Wallet) ID() kernel.UUID          { return w.id }
func (w *Wallet) OwnerID() kernel.UUID     { return w.ownerID }
func (w *Wallet) OwnerKind() OwnerKind     { return w.ownerKind }
func (w *Wallet) Balance() decimal.Decimal { return w.balance }
func (w *Wallet) Pending() decimal.Decimal { return w.pending }
func (w *Wallet) Currency() string         { return w.currency }
func (w *Wallet) CreatedAt() time.Time     { return w.createdAt }
func (w *Wallet) UpdatedAt() time.Time     { return w.updatedAt }
func (w *Wallet) Version() int64           { return w.version }
func (w *Wallet) SyncVersion(v int64)      { w.version = v }

// Credit adds a positive amount and returns the ledger line to persist.
func (w *Wallet) Credit(amount decimal.Decimal, parcelID *kernel.UUID, description string, now time.Time) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, errs.NewValueIsOutOfRangeError("amount", amount, "> 0", "-")
	}
	w.balance = w.balance.Add(amount)
	w.updatedAt = now
	return w.newTransaction(amount, TxCredit, parcelID, description, now), nil
}

// Debit removes amount from the balance. The balance never goes negative.
func (w *Wallet) Debit(amount decimal.Decimal, description string, now time.Time) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, errs.NewValueIsOutOfRangeError("amount", amount, "> 0", "-")
	}
	if w.balance.LessThan(amount) {
		return nil, errs.NewInsufficientFundsError(w.id.String(), w.balance, amount)
	}
	w.balance = w.balance.Sub(amount)
	w.updatedAt = now
	return w.newTransaction(amount.Neg(), TxDebit, nil, description, now), nil
}

// RequestPayout moves amount from the balance to pending until the payout is
// executed outside the system.
func (w *Wallet) RequestPayout(amount decimal.Decimal, now time.Time) (*Transaction, error) {
	tx, err := w.Debit(amount, "payout request", now)
	if err != nil {
		return nil, err
	}
	w.pending = w.pending.Add(amount)
	return tx, nil
}

func (w *Wallet) newTransaction(
	amount decimal.Decimal,
	kind TxKind,
	parcelID *kernel.UUID,
	description string,
	now time.Time,
) *Transaction {
	return &Transaction{
		ID:          kernel.NewUUID(),
		WalletID:    w.id,
		ParcelID:    parcelID,
		Amount:      amount,
		Kind:        kind,
		Description: description,
		CreatedAt:   now,
	}
}
