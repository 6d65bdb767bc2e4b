package commands

import (
	"context"
	"errors"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/services"
	"pickupoint/internal/core/ports"
	"pickupoint/internal/pkg/errs"
)

// dispatcher turns parcel status changes into courier missions and runs the
// offer cascade. It works inside the caller's unit of work.
type dispatcher struct {
	rt     Runtime
	ranker services.CandidateRanker
}

func newDispatcher(rt Runtime) dispatcher {
	return dispatcher{rt: rt, ranker: services.NewCandidateRanker()}
}

// legFor reports whether a parcel entering to needs a courier, and for which trip.
func legFor(p *parcel.Parcel, to parcel.Status) (mission.Leg, bool) {
	switch {
	case to == parcel.OutForDelivery:
		return mission.LegDelivery, true
	case to == parcel.DroppedAtOriginRelay && p.Mode() == parcel.RelayToRelay:
		return mission.LegTransit, true
	default:
		return mission.LegUnknown, false
	}
}

// ensureMission creates the mission p needs after moving from from, unless
// the parcel already has a non-terminal one. The new mission's cascade is
// started and its first offer queued on fx.
func (d dispatcher) ensureMission(
	ctx context.Context,
	uow UoW,
	p *parcel.Parcel,
	from parcel.Status,
	actor parcel.Actor,
	fx *effects,
) (*mission.Mission, error) {
	leg, needed := legFor(p, p.Status())
	if !needed {
		return nil, nil
	}

	missions := uow.MissionRepository()
	_, err := missions.GetActiveByParcel(ctx, p.ID())
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	pickup, delivery, err := d.places(ctx, uow.RelayRepository(), p, from, leg)
	if err != nil {
		return nil, err
	}

	now := d.rt.now()
	earnings := d.rt.Splitter.CourierShare(p.Mode(), p.SettledPrice())
	m, err := mission.NewMission(p.ID(), leg, pickup, delivery, earnings, now)
	if err != nil {
		return nil, err
	}

	offeree, err := d.startCascade(ctx, uow, m, now)
	if err != nil {
		return nil, err
	}
	if err = missions.Add(ctx, m); err != nil {
		return nil, err
	}

	event, err := parcel.NewEvent(p.ID(), parcel.EventMissionCreated, actor, "", map[string]any{
		"mission_id": m.ID().String(),
		"leg":        leg.String(),
		"earnings":   earnings.String(),
	}, now)
	if err != nil {
		return nil, err
	}
	if err = uow.EventLog().Append(ctx, event); err != nil {
		return nil, err
	}

	d.queueOffer(fx, m, offeree)
	return m, nil
}

// refuseWhileInTransit stops a parcel from going out for delivery while its
// transit leg is still running; that leg has to reach the destination relay
// first.
func (d dispatcher) refuseWhileInTransit(ctx context.Context, uow UoW, p *parcel.Parcel, target parcel.Status) error {
	if target != parcel.OutForDelivery || p.Status() != parcel.InTransit {
		return nil
	}
	active, err := uow.MissionRepository().GetActiveByParcel(ctx, p.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if active.Leg() == mission.LegTransit {
		return errs.NewIllegalStateError("transit mission", active.Status(), "send the parcel out for delivery during its")
	}
	return nil
}

// startCascade ranks the couriers free right now and opens the cascade.
func (d dispatcher) startCascade(ctx context.Context, uow UoW, m *mission.Mission, now time.Time) (*kernel.UUID, error) {
	couriers, err := uow.CourierRepository().ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	busy, err := uow.MissionRepository().CourierIDsHoldingMissions(ctx)
	if err != nil {
		return nil, err
	}

	candidates := d.ranker.Rank(m.Pickup().Point, couriers, busy)
	return m.StartCascade(candidates, d.rt.Policy.OfferWindow, now)
}

// queueOffer arms the offer expiry and tells the offeree, after commit.
func (d dispatcher) queueOffer(fx *effects, m *mission.Mission, offeree *kernel.UUID) {
	if offeree == nil {
		return
	}
	if at := m.Cascade().OfferExpiresAt; at != nil {
		fx.scheduleOffer(m.ID(), *at)
	}
	fx.notify(*offeree, "New mission", "A delivery mission is offered to you. Accept it before the offer expires.", m.ID().String())
}

// places resolves the pickup and delivery stops of a new mission.
func (d dispatcher) places(
	ctx context.Context,
	relays ports.RelayRepository,
	p *parcel.Parcel,
	from parcel.Status,
	leg mission.Leg,
) (mission.Place, mission.Place, error) {
	relayPlace := func(id *kernel.UUID, param string) (mission.Place, error) {
		if id == nil {
			return mission.Place{}, errs.NewValueIsRequiredError(param)
		}
		r, err := relays.Get(ctx, *id)
		if err != nil {
			return mission.Place{}, err
		}
		return mission.NewRelayPlace(r.ID(), r.Name(), r.City(), r.Point())
	}
	gpsPlace := func(point *kernel.GeoPoint, label, param string) (mission.Place, error) {
		if point == nil {
			return mission.Place{}, errs.NewValueIsRequiredError(param)
		}
		return mission.NewGPSPlace(*point, label, "")
	}

	if leg == mission.LegTransit {
		pickup, err := relayPlace(p.OriginRelayID(), "origin_relay_id")
		if err != nil {
			return mission.Place{}, mission.Place{}, err
		}
		delivery, err := relayPlace(p.EffectiveDestinationRelayID(), "destination_relay_id")
		return pickup, delivery, err
	}

	var (
		pickup mission.Place
		err    error
	)
	switch {
	case from == parcel.AtDestinationRelay:
		pickup, err = relayPlace(p.EffectiveDestinationRelayID(), "destination_relay_id")
	case from == parcel.Created && p.Mode().PicksUpAtHome():
		pickup, err = gpsPlace(p.OriginPoint(), "Sender", "origin_point")
	default:
		pickup, err = relayPlace(p.OriginRelayID(), "origin_relay_id")
	}
	if err != nil {
		return mission.Place{}, mission.Place{}, err
	}

	var delivery mission.Place
	if p.Mode().DeliversToHome() {
		delivery, err = gpsPlace(p.DeliveryPoint(), p.RecipientName(), "delivery_point")
	} else {
		delivery, err = relayPlace(p.EffectiveDestinationRelayID(), "destination_relay_id")
	}
	return pickup, delivery, err
}

// closeActiveMission ends the parcel's non-terminal mission to match a
// parcel status that no longer needs it. A started mission completes when
// the parcel arrived and fails otherwise. An unstarted one is cancelled.
func (d dispatcher) closeActiveMission(ctx context.Context, uow UoW, p *parcel.Parcel, fx *effects) error {
	missions := uow.MissionRepository()
	m, err := missions.GetActiveByParcel(ctx, p.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	now := d.rt.now()
	arrived := p.Status() == parcel.Delivered || p.Status() == parcel.AtDestinationRelay
	switch {
	case m.Status() == mission.InProgress && arrived:
		err = m.Complete(now)
	case m.Status() == mission.InProgress:
		err = m.Fail(now)
	default:
		err = m.Cancel(now)
	}
	if err != nil {
		return err
	}

	fx.cancelOffer(m.ID())
	return missions.Update(ctx, m)
}
