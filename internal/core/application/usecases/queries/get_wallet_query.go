package queries

import (
	"errors"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/wallet"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetWalletQueryIsNotConstructed = errors.New(
		"GetWalletQuery must be created via NewGetWalletQuery constructor",
	)
	ErrListWalletTransactionsQueryIsNotConstructed = errors.New(
		"ListWalletTransactionsQuery must be created via NewListWalletTransactionsQuery constructor",
	)
)

// DefaultTransactionsLimit caps a transaction listing when no limit is given.
const DefaultTransactionsLimit = 50

// GetWalletQuery reads the wallet of a courier or of a relay owner.
type GetWalletQuery struct {
	ownerID   kernel.UUID
	ownerKind wallet.OwnerKind

	guard guard.ConstructorGuard
}

func NewGetWalletQuery(ownerID kernel.UUID, kind wallet.OwnerKind) (GetWalletQuery, error) {
	if err := errors.Join(ownerID.Validate(), kind.Validate()); err != nil {
		return GetWalletQuery{}, err
	}
	return GetWalletQuery{ownerID: ownerID, ownerKind: kind, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWalletQuery) Validate() error {
	return q.guard.Validate(ErrGetWalletQueryIsNotConstructed)
}

// WalletView is a wallet's balances. Pending holds requested payouts not yet
// executed.
type WalletView struct {
	ID        kernel.UUID
	OwnerID   kernel.UUID
	OwnerKind wallet.OwnerKind
	Balance   decimal.Decimal
	Pending   decimal.Decimal
	Currency  string
	UpdatedAt time.Time
}

// ListWalletTransactionsQuery reads a wallet's ledger lines, newest first.
type ListWalletTransactionsQuery struct {
	ownerID   kernel.UUID
	ownerKind wallet.OwnerKind
	limit     int

	guard guard.ConstructorGuard
}

// NewListWalletTransactionsQuery uses DefaultTransactionsLimit when limit is 0.
func NewListWalletTransactionsQuery(ownerID kernel.UUID, kind wallet.OwnerKind, limit int) (ListWalletTransactionsQuery, error) {
	var limitErr error
	switch {
	case limit == 0:
		limit = DefaultTransactionsLimit
	case limit < 0 || limit > 500:
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, 500)
	}
	if err := errors.Join(ownerID.Validate(), kind.Validate(), limitErr); err != nil {
		return ListWalletTransactionsQuery{}, err
	}
	return ListWalletTransactionsQuery{
		ownerID:   ownerID,
		ownerKind: kind,
		limit:     limit,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q ListWalletTransactionsQuery) Validate() error {
	return q.guard.Validate(ErrListWalletTransactionsQueryIsNotConstructed)
}

// TransactionView is one ledger line. Credits are positive, debits negative.
type TransactionView struct {
	ID          kernel.UUID
	ParcelID    *kernel.UUID
	Amount      decimal.Decimal
	Kind        wallet.TxKind
	Description string
	CreatedAt   time.Time
}
