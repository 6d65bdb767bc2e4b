package commands

import (
	"context"
	"errors"

	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/pkg/errs"
)

// AcceptMissionCommandHandler assigns a pending mission to the courier who
// asks first.
//
// Business rules:
//   - only a pending mission can be accepted (errs.ErrAlreadyAssigned)
//   - a courier holds one non-terminal mission at a time (errs.ErrCourierBusy)
//   - while an exclusive offer runs only its holder may accept (errs.ErrIllegalState)
//
// Two couriers racing for the same mission both pass the in-memory checks;
// the version-conditional update lets exactly one of them commit and the
// other gets errs.ErrAlreadyAssigned. One courier racing for two missions is
// stopped by the active-courier unique index, reported as errs.ErrCourierBusy.
type AcceptMissionCommandHandler struct {
	uowFactory UoWFactory
	rt         Runtime
}

func NewAcceptMissionCommandHandler(uowFactory UoWFactory, rt Runtime) AcceptMissionCommandHandler {
	return AcceptMissionCommandHandler{uowFactory: uowFactory, rt: rt}
}

func (h AcceptMissionCommandHandler) Handle(ctx context.Context, cmd AcceptMissionCommand) (*mission.Mission, error) {
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

	missions := uow.MissionRepository()
	m, err := missions.Get(ctx, cmd.MissionID())
	if err != nil {
		return nil, err
	}
	if _, err = uow.CourierRepository().Get(ctx, cmd.CourierID()); err != nil {
		return nil, err
	}

	held, err := missions.GetActiveByCourier(ctx, cmd.CourierID())
	switch {
	case err == nil && !held.ID().IsEqual(m.ID()):
		return nil, errs.NewCourierBusyError(cmd.CourierID().String())
	case err != nil && !errors.Is(err, errs.ErrObjectNotFound):
		return nil, err
	}

	now := h.rt.now()
	if err = m.Accept(cmd.CourierID(), now); err != nil {
		return nil, err
	}
	if err = missions.Update(ctx, m); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			return nil, errs.NewAlreadyAssignedError(m.ID().String())
		}
		return nil, err
	}

	p, err := uow.ParcelRepository().Get(ctx, m.ParcelID())
	if err != nil {
		return nil, err
	}
	if err = p.AssignCourier(cmd.CourierID(), now); err != nil {
		return nil, err
	}
	if err = uow.ParcelRepository().Update(ctx, p); err != nil {
		return nil, err
	}

	actor, err := parcel.NewActor(cmd.CourierID(), parcel.RoleCourier)
	if err != nil {
		return nil, err
	}
	event, err := parcel.NewEvent(p.ID(), parcel.EventMissionAssigned, actor, "", map[string]any{
		"mission_id": m.ID().String(),
		"courier_id": cmd.CourierID().String(),
	}, now)
	if err != nil {
		return nil, err
	}
	if err = uow.EventLog().Append(ctx, event); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	fx := newEffects(h.rt)
	fx.cancelOffer(m.ID())
	fx.notify(p.SenderID(), "Courier assigned", "A courier accepted parcel "+p.TrackingCode()+".", p.TrackingCode())
	fx.flush(ctx)

	return m, nil
}
