package commands

import (
	"context"

	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/pkg/errs"
)

// ReleaseMissionCommandHandler puts an assigned mission back to pending,
// clears the courier from the parcel and restarts the offer cascade.
type ReleaseMissionCommandHandler struct {
	uowFactory UoWFactory
	rt         Runtime
	dispatcher dispatcher
}

func NewReleaseMissionCommandHandler(uowFactory UoWFactory, rt Runtime) ReleaseMissionCommandHandler {
	return ReleaseMissionCommandHandler{
		uowFactory: uowFactory,
		rt:         rt,
		dispatcher: newDispatcher(rt),
	}
}

func (h ReleaseMissionCommandHandler) Handle(ctx context.Context, cmd ReleaseMissionCommand) (*mission.Mission, error) {
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

	actor := cmd.Actor()
	if !actor.Role.IsAdministrative() && (actor.ID == nil || !m.IsAssignedTo(*actor.ID)) {
		return nil, errs.NewNotPermittedError(actor.Role, "release another courier's mission")
	}

	fx := newEffects(h.rt)
	if err = releaseMission(ctx, uow, h.dispatcher, m, actor, cmd.Reason(), fx); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	fx.flush(ctx)
	return m, nil
}

// releaseMission is shared with the reconciliation sweep.
func releaseMission(
	ctx context.Context,
	uow UoW,
	d dispatcher,
	m *mission.Mission,
	actor parcel.Actor,
	reason string,
	fx *effects,
) error {
	now := d.rt.now()
	released := m.CourierID()
	if err := m.Release(now); err != nil {
		return err
	}

	// The releasing courier still shows as busy here, so the new cascade
	// skips them.
	offeree, err := d.startCascade(ctx, uow, m, now)
	if err != nil {
		return err
	}
	if err = uow.MissionRepository().Update(ctx, m); err != nil {
		return err
	}

	p, err := uow.ParcelRepository().Get(ctx, m.ParcelID())
	if err != nil {
		return err
	}
	p.ClearCourier(now)
	if err = uow.ParcelRepository().Update(ctx, p); err != nil {
		return err
	}

	meta := map[string]any{"mission_id": m.ID().String()}
	if released != nil {
		meta["courier_id"] = released.String()
	}
	event, err := parcel.NewEvent(p.ID(), parcel.EventMissionReleased, actor, reason, meta, now)
	if err != nil {
		return err
	}
	if err = uow.EventLog().Append(ctx, event); err != nil {
		return err
	}

	d.queueOffer(fx, m, offeree)
	return nil
}
