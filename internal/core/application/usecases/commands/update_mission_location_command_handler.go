package commands

import (
	"context"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/ports"
	"pickupoint/internal/pkg/errs"
)

// UpdateMissionLocationCommandHandler stores a courier position report on the
// mission trail and the courier, and fires the one-time approach notice.
// The ETA refresh calls the route provider outside the transaction and is
// best effort; routes may be nil.
type UpdateMissionLocationCommandHandler struct {
	uowFactory UoWFactory
	routes     ports.RouteTimeProvider
	rt         Runtime
}

func NewUpdateMissionLocationCommandHandler(
	uowFactory UoWFactory,
	routes ports.RouteTimeProvider,
	rt Runtime,
) UpdateMissionLocationCommandHandler {
	return UpdateMissionLocationCommandHandler{uowFactory: uowFactory, routes: routes, rt: rt}
}

func (h UpdateMissionLocationCommandHandler) Handle(ctx context.Context, cmd UpdateMissionLocationCommand) (*mission.Mission, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.rt.now()
	fx := newEffects(h.rt)
	m, err := h.record(ctx, cmd, now, fx)
	if err != nil {
		return nil, err
	}
	fx.flush(ctx)

	if m.NeedsEtaRefresh(now, h.rt.Policy.EtaRefresh) {
		if refreshed, err := h.refreshEta(ctx, m, cmd.Point(), now); err != nil {
			h.rt.logger().WarnContext(ctx, "eta refresh failed", "mission_id", m.ID().String(), "error", err)
		} else if refreshed != nil {
			m = refreshed
		}
	}

	return m, nil
}

func (h UpdateMissionLocationCommandHandler) record(
	ctx context.Context,
	cmd UpdateMissionLocationCommand,
	now time.Time,
	fx *effects,
) (*mission.Mission, error) {
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
		return nil, errs.NewNotPermittedError(parcel.RoleCourier, "report location for another courier's mission")
	}
	if err = m.RecordLocation(cmd.Point(), now, h.rt.Policy.TrailCapacity); err != nil {
		return nil, err
	}

	c, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return nil, err
	}
	if c.UpdatePosition(cmd.Point(), now) {
		if err = uow.CourierRepository().Update(ctx, c); err != nil {
			return nil, err
		}
	}

	if d, ok := m.DistanceToDeliveryMeters(cmd.Point()); ok && m.MarkApproaching(d, h.rt.Policy.ApproachRadiusMeters) {
		p, err := uow.ParcelRepository().Get(ctx, m.ParcelID())
		if err != nil {
			return nil, err
		}
		fx.notify(p.SenderID(), "Courier approaching", "The courier is close to the drop-off point.", p.TrackingCode())
		if m.Leg() == mission.LegDelivery {
			fx.sms(p.RecipientPhone(), "Your parcel "+p.TrackingCode()+" is arriving shortly. Keep your delivery code ready.")
		}
	}

	if err = uow.MissionRepository().Update(ctx, m); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// refreshEta returns nil without error when no estimate can be made. The
// route call runs before the unit of work opens.
func (h UpdateMissionLocationCommandHandler) refreshEta(
	ctx context.Context,
	m *mission.Mission,
	from kernel.GeoPoint,
	now time.Time,
) (*mission.Mission, error) {
	to := m.Delivery().Point
	if h.routes == nil || to == nil {
		return nil, nil
	}
	seconds, err := h.routes.DurationSeconds(ctx, from, *to)
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

	fresh, err := uow.MissionRepository().Get(ctx, m.ID())
	if err != nil {
		return nil, err
	}
	fresh.SetEta(seconds, now)
	if err = uow.MissionRepository().Update(ctx, fresh); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return fresh, nil
}
