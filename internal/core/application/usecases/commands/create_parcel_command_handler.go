package commands

import (
	"context"
	"fmt"

	"pickupoint/internal/core/domain/model/parcel"

	"github.com/shopspring/decimal"
)

// Quoter prices a parcel before it exists.
type Quoter interface {
	QuoteParcel(ctx context.Context, spec parcel.Spec) (decimal.Decimal, error)
}

// QuoterFunc adapts a function to Quoter.
type QuoterFunc func(ctx context.Context, spec parcel.Spec) (decimal.Decimal, error)

func (f QuoterFunc) QuoteParcel(ctx context.Context, spec parcel.Spec) (decimal.Decimal, error) {
	return f(ctx, spec)
}

// CreateParcelCommandHandler quotes and stores a new parcel, then texts the
// delivery code to the recipient.
//
// The quote is taken before the transaction opens: it reads the tariffs and
// the supply/demand counts, none of which need to be locked.
type CreateParcelCommandHandler struct {
	uowFactory UoWFactory
	quoter     Quoter
	rt         Runtime
}

func NewCreateParcelCommandHandler(uowFactory UoWFactory, quoter Quoter, rt Runtime) CreateParcelCommandHandler {
	return CreateParcelCommandHandler{
		uowFactory: uowFactory,
		quoter:     quoter,
		rt:         rt,
	}
}

func (h CreateParcelCommandHandler) Handle(ctx context.Context, cmd CreateParcelCommand) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	price, err := h.quoter.QuoteParcel(ctx, cmd.Spec())
	if err != nil {
		return nil, err
	}

	now := h.rt.now()
	p, err := parcel.NewParcel(cmd.Spec(), price, now)
	if err != nil {
		return nil, err
	}

	created, err := parcel.NewEvent(p.ID(), parcel.EventParcelCreated, parcel.SystemActor(), "", map[string]any{
		"tracking_code": p.TrackingCode(),
		"quoted_price":  price.String(),
		"mode":          p.Mode().String(),
	}, now)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ParcelRepository().Add(ctx, p); err != nil {
		return nil, err
	}
	if err = uow.EventLog().Append(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	fx := newEffects(h.rt)
	fx.sms(p.RecipientPhone(), fmt.Sprintf(
		"A parcel is on its way to you. Tracking %s, delivery code %s.",
		p.TrackingCode(), p.DeliveryCode().Value(),
	))
	announceStatus(fx, p)
	fx.flush(ctx)

	return p, nil
}
