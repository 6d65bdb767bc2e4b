package commands

import (
	"context"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/wallet"
)

// RequestPayoutCommandHandler debits a wallet into its pending payout. The
// payout itself happens outside the system.
type RequestPayoutCommandHandler struct {
	uowFactory WalletUoWFactory
	clock      kernel.Clock
}

func NewRequestPayoutCommandHandler(uowFactory WalletUoWFactory, clock kernel.Clock) RequestPayoutCommandHandler {
	if clock == nil {
		clock = kernel.SystemClock{}
	}
	return RequestPayoutCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle returns the wallet after the debit and the ledger line recording it.
func (h RequestPayoutCommandHandler) Handle(ctx context.Context, cmd RequestPayoutCommand) (*wallet.Wallet, *wallet.Transaction, error) {
	if err := cmd.Validate(); err != nil {
		return nil, nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	wallets := uow.WalletRepository()
	w, err := wallets.GetByOwner(ctx, cmd.OwnerID(), cmd.OwnerKind())
	if err != nil {
		return nil, nil, err
	}

	tx, err := w.RequestPayout(cmd.Amount(), h.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err = wallets.Update(ctx, w); err != nil {
		return nil, nil, err
	}
	if err = wallets.AddTransaction(ctx, tx); err != nil {
		return nil, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return w, tx, nil
}
