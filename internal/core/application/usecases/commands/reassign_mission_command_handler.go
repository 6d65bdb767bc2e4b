package commands

import (
	"context"
	"errors"

	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/pkg/errs"
)

// ReassignMissionCommandHandler is the admin override moving a non-terminal
// mission to another courier. The new courier must not hold a mission and
// restarts from pickup.
type ReassignMissionCommandHandler struct {
	uowFactory UoWFactory
	rt         Runtime
}

func NewReassignMissionCommandHandler(uowFactory UoWFactory, rt Runtime) ReassignMissionCommandHandler {
	return ReassignMissionCommandHandler{uowFactory: uowFactory, rt: rt}
}

func (h ReassignMissionCommandHandler) Handle(ctx context.Context, cmd ReassignMissionCommand) (*mission.Mission, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if !cmd.Actor().Role.IsAdministrative() {
		return nil, errs.NewNotPermittedError(cmd.Actor().Role, "reassign a mission")
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

	previous := m.CourierID()
	now := h.rt.now()
	if err = m.Reassign(cmd.CourierID(), now); err != nil {
		return nil, err
	}
	if err = missions.Update(ctx, m); err != nil {
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

	meta := map[string]any{
		"mission_id": m.ID().String(),
		"to":         cmd.CourierID().String(),
	}
	if previous != nil {
		meta["from"] = previous.String()
	}
	event, err := parcel.NewEvent(p.ID(), parcel.EventCourierReassigned, cmd.Actor(), cmd.Reason(), meta, now)
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
	fx.notify(cmd.CourierID(), "Mission assigned", "A mission was assigned to you by dispatch.", m.ID().String())
	if previous != nil && !previous.IsEqual(cmd.CourierID()) {
		fx.notify(*previous, "Mission withdrawn", "Dispatch moved your mission to another courier.", m.ID().String())
	}
	fx.flush(ctx)

	return m, nil
}
