package commands

import (
	"context"

	"pickupoint/internal/core/domain/model/parcel"
)

// RecordPaymentCommandHandler applies a payment signal. A successful payment
// fixes the parcel price; a failure is recorded and may be followed by a
// later success.
type RecordPaymentCommandHandler struct {
	uowFactory UoWFactory
	rt         Runtime
}

func NewRecordPaymentCommandHandler(uowFactory UoWFactory, rt Runtime) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{uowFactory: uowFactory, rt: rt}
}

func (h RecordPaymentCommandHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcels := uow.ParcelRepository()
	var (
		p   *parcel.Parcel
		err error
	)
	if id := cmd.ParcelID(); id != nil {
		p, err = parcels.Get(ctx, *id)
	} else {
		p, err = parcels.GetByTrackingCode(ctx, cmd.TrackingCode())
	}
	if err != nil {
		return nil, err
	}

	now := h.rt.now()
	kind := parcel.EventPaymentReceived
	meta := map[string]any{"reference": cmd.Reference(), "method": cmd.Method()}
	if cmd.Succeeded() {
		err = p.MarkPaid(cmd.Amount(), cmd.Reference(), now)
		meta["amount"] = cmd.Amount().String()
	} else {
		kind = parcel.EventPaymentFailed
		err = p.MarkPaymentFailed(cmd.Reference(), now)
	}
	if err != nil {
		return nil, err
	}

	event, err := parcel.NewEvent(p.ID(), kind, parcel.SystemActor(), "", meta, now)
	if err != nil {
		return nil, err
	}
	if err = parcels.Update(ctx, p); err != nil {
		return nil, err
	}
	if err = uow.EventLog().Append(ctx, event); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	fx := newEffects(h.rt)
	if cmd.Succeeded() {
		fx.notify(p.SenderID(), "Payment received", "Payment for parcel "+p.TrackingCode()+" was received.", p.TrackingCode())
	} else {
		fx.notify(p.SenderID(), "Payment failed", "Payment for parcel "+p.TrackingCode()+" failed. Please try again.", p.TrackingCode())
	}
	fx.flush(ctx)

	return p, nil
}
