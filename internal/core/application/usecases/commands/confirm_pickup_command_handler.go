package commands

import (
	"context"

	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/services"
	"pickupoint/internal/pkg/errs"
)

// ConfirmPickupCommandHandler starts an assigned mission once the pickup code
// checks out. Only the assigned courier gets as far as the code check. Picking up a transit parcel at the origin relay also moves the
// parcel to IN_TRANSIT.
type ConfirmPickupCommandHandler struct {
	uowFactory UoWFactory
	rt         Runtime
	lifecycle  lifecycle
	proofs     services.ProofValidator
}

func NewConfirmPickupCommandHandler(uowFactory UoWFactory, rt Runtime) ConfirmPickupCommandHandler {
	return ConfirmPickupCommandHandler{
		uowFactory: uowFactory,
		rt:         rt,
		lifecycle:  newLifecycle(rt),
		proofs:     services.NewProofValidator(rt.Policy.GeofenceMeters),
	}
}

func (h ConfirmPickupCommandHandler) Handle(ctx context.Context, cmd ConfirmPickupCommand) (*mission.Mission, error) {
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

	m, err := uow.MissionRepository().Get(ctx, cmd.MissionID())
	if err != nil {
		return nil, err
	}
	if !m.IsAssignedTo(cmd.CourierID()) {
		return nil, errs.NewNotPermittedError(parcel.RoleCourier, "confirm pickup for another courier's mission")
	}
	if m.Status() != mission.Assigned {
		return nil, errs.NewIllegalStateError("mission", m.Status(), "confirm pickup for")
	}

	p, err := uow.ParcelRepository().Get(ctx, m.ParcelID())
	if err != nil {
		return nil, err
	}
	if err = h.proofs.ValidatePickup(p, cmd.Code()); err != nil {
		return nil, err
	}

	now := h.rt.now()
	if err = m.ConfirmPickup(cmd.CourierID(), now); err != nil {
		return nil, err
	}
	if err = uow.MissionRepository().Update(ctx, m); err != nil {
		return nil, err
	}

	actor, err := parcel.NewActor(cmd.CourierID(), parcel.RoleCourier)
	if err != nil {
		return nil, err
	}
	event, err := parcel.NewEvent(p.ID(), parcel.EventPickupConfirmed, actor, "", map[string]any{
		"mission_id": m.ID().String(),
		"leg":        m.Leg().String(),
	}, now)
	if err != nil {
		return nil, err
	}
	if err = uow.EventLog().Append(ctx, event); err != nil {
		return nil, err
	}

	fx := newEffects(h.rt)
	if m.Leg() == mission.LegTransit && p.Status() == parcel.DroppedAtOriginRelay {
		err = h.lifecycle.apply(ctx, uow, p, transitionRequest{target: parcel.InTransit, actor: actor}, fx)
		if err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	fx.flush(ctx)
	return m, nil
}
