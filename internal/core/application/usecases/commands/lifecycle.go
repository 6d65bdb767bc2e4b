package commands

import (
	"context"
	"math"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/relay"
)

// lifecycle applies a status change and everything it drags along inside one
// unit of work: the audit event, mission creation or closure, the redirect
// relay lookup and the revenue split.
type lifecycle struct {
	rt          Runtime
	dispatcher  dispatcher
	distributor revenueDistributor
}

func newLifecycle(rt Runtime) lifecycle {
	return lifecycle{
		rt:          rt,
		dispatcher:  newDispatcher(rt),
		distributor: newRevenueDistributor(rt),
	}
}

type transitionRequest struct {
	target   parcel.Status
	actor    parcel.Actor
	note     string
	metadata map[string]any
}

// apply moves p to req.target and persists the result. Nothing is written
// when the move is refused.
func (l lifecycle) apply(ctx context.Context, uow UoW, p *parcel.Parcel, req transitionRequest, fx *effects) error {
	if err := l.dispatcher.refuseWhileInTransit(ctx, uow, p, req.target); err != nil {
		return err
	}

	now := l.rt.now()
	from, err := p.TransitionTo(req.target, req.actor.Role, now)
	if err != nil {
		return err
	}

	event, err := parcel.NewStatusChangedEvent(p.ID(), from, req.target, req.actor, req.note, req.metadata, now)
	if err != nil {
		return err
	}
	if err = uow.EventLog().Append(ctx, event); err != nil {
		return err
	}

	switch req.target {
	case parcel.OutForDelivery, parcel.DroppedAtOriginRelay:
		if _, err = l.dispatcher.ensureMission(ctx, uow, p, from, req.actor, fx); err != nil {
			return err
		}
	case parcel.AtDestinationRelay, parcel.Cancelled, parcel.Returned, parcel.Expired:
		if err = l.dispatcher.closeActiveMission(ctx, uow, p, fx); err != nil {
			return err
		}
	case parcel.DeliveryFailed:
		if err = l.dispatcher.closeActiveMission(ctx, uow, p, fx); err != nil {
			return err
		}
		if err = l.redirectToNearestRelay(ctx, uow, p); err != nil {
			return err
		}
	case parcel.Delivered:
		if err = l.dispatcher.closeActiveMission(ctx, uow, p, fx); err != nil {
			return err
		}
		if _, err = l.distributor.distribute(ctx, uow, p); err != nil {
			return err
		}
	case parcel.Created, parcel.InTransit, parcel.AvailableAtRelay, parcel.RedirectedToRelay,
		parcel.Disputed, parcel.StatusUnknown:
	}

	if err = uow.ParcelRepository().Update(ctx, p); err != nil {
		return err
	}

	announceStatus(fx, p)
	return nil
}

// redirectToNearestRelay picks the active relay closest to the failed
// delivery point. Parcels without a delivery point, or a network without
// located relays, keep their current destination.
func (l lifecycle) redirectToNearestRelay(ctx context.Context, uow UoW, p *parcel.Parcel) error {
	target := p.DeliveryPoint()
	if target == nil {
		return nil
	}

	relays, err := uow.RelayRepository().ListActive(ctx)
	if err != nil {
		return err
	}
	nearest, distance := nearestRelay(*target, relays)
	if nearest == nil {
		return nil
	}

	now := l.rt.now()
	if err = p.RedirectTo(nearest.ID(), now); err != nil {
		return err
	}

	event, err := parcel.NewEvent(p.ID(), parcel.EventRelayRedirectAssigned, parcel.SystemActor(), nearest.Name(), map[string]any{
		"relay_id":        nearest.ID().String(),
		"distance_meters": math.Round(distance),
	}, now)
	if err != nil {
		return err
	}
	return uow.EventLog().Append(ctx, event)
}

func nearestRelay(target kernel.GeoPoint, relays []*relay.Relay) (*relay.Relay, float64) {
	var (
		best     *relay.Relay
		bestDist = math.Inf(1)
	)
	for _, r := range relays {
		if r.Point() == nil {
			continue
		}
		d, err := target.DistanceMeters(*r.Point())
		if err != nil {
			continue
		}
		if d < bestDist {
			best, bestDist = r, d
		}
	}
	return best, bestDist
}
