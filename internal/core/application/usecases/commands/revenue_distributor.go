package commands

import (
	"context"
	"errors"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/wallet"
	"pickupoint/internal/core/domain/services"
	"pickupoint/internal/core/ports"
	"pickupoint/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// revenueDistributor pays the parties of a delivered parcel. It runs inside
// the unit of work that moved the parcel to DELIVERED, and the settlements
// row keyed by parcel makes a second run a no-op.
type revenueDistributor struct {
	rt Runtime
}

func newRevenueDistributor(rt Runtime) revenueDistributor {
	return revenueDistributor{rt: rt}
}

// distribute returns the shares it paid, or nil when the parcel was already
// settled. Ledger failures come back as errs.ErrRetryable.
func (d revenueDistributor) distribute(ctx context.Context, uow UoW, p *parcel.Parcel) (*services.Shares, error) {
	settlements := uow.SettlementRepository()
	done, err := settlements.Exists(ctx, p.ID())
	if err != nil {
		return nil, errs.NewRetryableError("read settlement", err)
	}
	if done {
		return nil, nil
	}

	now := d.rt.now()
	price := p.SettledPrice()
	shares := d.rt.Splitter.Split(p.Mode(), price)

	err = settlements.Add(ctx, wallet.Settlement{
		ParcelID:         p.ID(),
		Price:            price,
		Platform:         shares.Platform,
		OriginRelay:      shares.OriginRelay,
		DestinationRelay: shares.DestinationRelay,
		Courier:          shares.Courier,
		CreatedAt:        now,
	})
	if err != nil {
		return nil, errs.NewRetryableError("record settlement", err)
	}

	relays := uow.RelayRepository()
	wallets := uow.WalletRepository()
	parcelID := p.ID()

	if id := p.OriginRelayID(); id != nil && shares.OriginRelay.IsPositive() {
		if err = d.creditRelay(ctx, relays, wallets, *id, shares.OriginRelay, parcelID, "origin relay commission", now); err != nil {
			return nil, err
		}
	}
	if id := p.EffectiveDestinationRelayID(); id != nil && shares.DestinationRelay.IsPositive() {
		if err = d.creditRelay(ctx, relays, wallets, *id, shares.DestinationRelay, parcelID, "destination relay commission", now); err != nil {
			return nil, err
		}
	}
	if id := p.CourierID(); id != nil && shares.Courier.IsPositive() {
		if err = credit(ctx, wallets, *id, wallet.OwnerCourier, shares.Courier, parcelID, "delivery earnings", now); err != nil {
			return nil, err
		}
	}

	event, err := parcel.NewEvent(p.ID(), parcel.EventRevenueDistributed, parcel.SystemActor(), "", map[string]any{
		"price":             price.String(),
		"platform":          shares.Platform.String(),
		"origin_relay":      shares.OriginRelay.String(),
		"destination_relay": shares.DestinationRelay.String(),
		"courier":           shares.Courier.String(),
	}, now)
	if err != nil {
		return nil, err
	}
	if err = uow.EventLog().Append(ctx, event); err != nil {
		return nil, err
	}

	return &shares, nil
}

func (d revenueDistributor) creditRelay(
	ctx context.Context,
	relays ports.RelayRepository,
	wallets ports.WalletRepository,
	relayID kernel.UUID,
	amount decimal.Decimal,
	parcelID kernel.UUID,
	description string,
	now time.Time,
) error {
	r, err := relays.Get(ctx, relayID)
	if err != nil {
		return err
	}
	return credit(ctx, wallets, r.OwnerID(), wallet.OwnerRelay, amount, parcelID, description, now)
}

// credit adds amount to the owner's wallet, opening the wallet on first use.
func credit(
	ctx context.Context,
	wallets ports.WalletRepository,
	ownerID kernel.UUID,
	kind wallet.OwnerKind,
	amount decimal.Decimal,
	parcelID kernel.UUID,
	description string,
	now time.Time,
) error {
	w, err := wallets.GetByOwner(ctx, ownerID, kind)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		if w, err = wallet.NewWallet(ownerID, kind, now); err != nil {
			return err
		}
		if err = wallets.Add(ctx, w); err != nil {
			return errs.NewRetryableError("open wallet", err)
		}
	case err != nil:
		return errs.NewRetryableError("read wallet", err)
	}

	tx, err := w.Credit(amount, &parcelID, description, now)
	if err != nil {
		return err
	}
	if err = wallets.Update(ctx, w); err != nil {
		return errs.NewRetryableError("credit wallet", err)
	}
	if err = wallets.AddTransaction(ctx, tx); err != nil {
		return errs.NewRetryableError("record wallet transaction", err)
	}
	return nil
}
