package commands

import (
	"context"
	"errors"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/ports"
	"pickupoint/internal/pkg/errs"
)

// ReleaseStuckMissionsCommandHandler runs the reconciliation sweep. Each
// stuck mission is released in its own unit of work so one failure does not
// hold back the rest; failures are logged and skipped.
//
// The sweep also advances exclusive offers that stayed overdue for a whole
// offer window. Their queue entry was lost or dropped, and without this pass
// the mission would stay reserved for one courier forever.
type ReleaseStuckMissionsCommandHandler struct {
	uowFactory UoWFactory
	rt         Runtime
	dispatcher dispatcher
	offers     AdvanceOfferCommandHandler
}

func NewReleaseStuckMissionsCommandHandler(uowFactory UoWFactory, rt Runtime) ReleaseStuckMissionsCommandHandler {
	return ReleaseStuckMissionsCommandHandler{
		uowFactory: uowFactory,
		rt:         rt,
		dispatcher: newDispatcher(rt),
		offers:     NewAdvanceOfferCommandHandler(uowFactory, rt),
	}
}

// Handle returns how many missions were released.
func (h *ReleaseStuckMissionsCommandHandler) Handle(ctx context.Context, cmd ReleaseStuckMissionsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := h.rt.now()
	stuck, err := h.list(ctx, func(missions ports.MissionRepository) ([]*mission.Mission, error) {
		return missions.ListAssignedBefore(ctx, now.Add(-h.rt.Policy.StuckTimeout))
	})
	if err != nil {
		return 0, err
	}

	log := h.rt.logger()
	released := 0
	for _, id := range stuck {
		ok, err := h.releaseOne(ctx, id)
		if err != nil {
			log.WarnContext(ctx, "stuck mission not released", "mission_id", id.String(), "error", err)
			continue
		}
		if ok {
			released++
		}
	}

	if released > 0 {
		log.InfoContext(ctx, "released stuck missions", "count", released)
	}

	if err = h.advanceOverdueOffers(ctx, now); err != nil {
		return released, err
	}
	return released, nil
}

func (h *ReleaseStuckMissionsCommandHandler) list(
	ctx context.Context,
	query func(ports.MissionRepository) ([]*mission.Mission, error),
) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	missions, err := query(uow.MissionRepository())
	if err != nil {
		return nil, err
	}
	ids := make([]kernel.UUID, 0, len(missions))
	for _, m := range missions {
		ids = append(ids, m.ID())
	}
	return ids, nil
}

// advanceOverdueOffers moves each overdue cascade one step, the same way the
// offer queue would have. The next offer is queued again on success.
func (h *ReleaseStuckMissionsCommandHandler) advanceOverdueOffers(ctx context.Context, now time.Time) error {
	overdue, err := h.list(ctx, func(missions ports.MissionRepository) ([]*mission.Mission, error) {
		return missions.ListOverdueOffers(ctx, now.Add(-h.rt.Policy.OfferWindow))
	})
	if err != nil {
		return err
	}

	log := h.rt.logger()
	advanced := 0
	for _, id := range overdue {
		cmd, err := NewAdvanceOfferCommand(id)
		if err != nil {
			continue
		}
		moved, err := h.offers.Handle(ctx, cmd)
		if err != nil {
			log.WarnContext(ctx, "overdue offer not advanced", "mission_id", id.String(), "error", err)
			continue
		}
		if moved {
			advanced++
		}
	}

	if advanced > 0 {
		log.InfoContext(ctx, "advanced overdue offers", "count", advanced)
	}
	return nil
}

// releaseOne reloads the mission and checks it is still stuck, since a
// pickup may have landed between the listing and this transaction.
func (h *ReleaseStuckMissionsCommandHandler) releaseOne(ctx context.Context, id kernel.UUID) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	m, err := uow.MissionRepository().Get(ctx, id)
	if err != nil {
		return false, err
	}
	if !m.IsStuck(h.rt.now(), h.rt.Policy.StuckTimeout) {
		return false, nil
	}

	courierID := m.CourierID()

	fx := newEffects(h.rt)
	err = releaseMission(ctx, uow, h.dispatcher, m, parcel.SystemActor(), "not picked up in time", fx)
	if err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			return false, nil
		}
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	if courierID != nil {
		fx.notify(*courierID, "Mission released", "Your mission was released because the parcel was not picked up in time.", m.ID().String())
	}
	fx.flush(ctx)

	return true, nil
}
