package commands

import (
	"errors"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/wallet"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrRequestPayoutCommandIsNotConstructed = errors.New(
	"RequestPayoutCommand must be created via NewRequestPayoutCommand constructor",
)

// RequestPayoutCommand moves part of a wallet balance to pending payout.
type RequestPayoutCommand struct { //nolint:recvcheck //using for validation
	ownerID   kernel.UUID
	ownerKind wallet.OwnerKind
	amount    decimal.Decimal

	guard guard.ConstructorGuard
}

func NewRequestPayoutCommand(ownerID kernel.UUID, kind wallet.OwnerKind, amount decimal.Decimal) (RequestPayoutCommand, error) {
	var amountErr error
	if !amount.IsPositive() {
		amountErr = errs.NewValueIsOutOfRangeError("amount", amount, "> 0", "-")
	}
	if err := errors.Join(ownerID.Validate(), kind.Validate(), amountErr); err != nil {
		return RequestPayoutCommand{}, err
	}
	return RequestPayoutCommand{
		ownerID:   ownerID,
		ownerKind: kind,
		amount:    amount,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RequestPayoutCommand) Validate() error {
	return c.guard.Validate(ErrRequestPayoutCommandIsNotConstructed)
}

func (c RequestPayoutCommand) OwnerID() kernel.UUID        { return c.ownerID }
func (c RequestPayoutCommand) OwnerKind() wallet.OwnerKind { return c.ownerKind }
func (c RequestPayoutCommand) Amount() decimal.Decimal     { return c.amount }
