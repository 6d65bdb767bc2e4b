package commands

import (
	"context"

	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/services"
	"pickupoint/internal/pkg/errs"
)

// ConfirmDeliveryCommandHandler closes an in-progress mission on a valid
// proof. A delivery leg moves the parcel to DELIVERED and pays everyone in
// the same unit of work; a transit leg moves it to AT_DESTINATION_RELAY.
//
// Proof checks run before anything is written, in order: payment, code,
// geofence. A refused proof leaves mission and parcel untouched.
type ConfirmDeliveryCommandHandler struct {
	uowFactory UoWFactory
	rt         Runtime
	lifecycle  lifecycle
	proofs     services.ProofValidator
}

func NewConfirmDeliveryCommandHandler(uowFactory UoWFactory, rt Runtime) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		rt:         rt,
		lifecycle:  newLifecycle(rt),
		proofs:     services.NewProofValidator(rt.Policy.GeofenceMeters),
	}
}

// Handle returns the completed mission.
func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) (*mission.Mission, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var fx *effects
	m, err := retryUnitOfWork(ctx, h.rt, "confirm delivery", func() (*mission.Mission, error) {
		fx = newEffects(h.rt)
		return h.attempt(ctx, cmd, fx)
	})
	if err != nil {
		return nil, err
	}

	fx.flush(ctx)
	return m, nil
}

func (h ConfirmDeliveryCommandHandler) attempt(ctx context.Context, cmd ConfirmDeliveryCommand, fx *effects) (*mission.Mission, error) {
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
		return nil, errs.NewNotPermittedError(parcel.RoleCourier, "confirm delivery for another courier's mission")
	}
	if m.Status() != mission.InProgress {
		return nil, errs.NewIllegalStateError("mission", m.Status(), "confirm delivery for")
	}

	p, err := uow.ParcelRepository().Get(ctx, m.ParcelID())
	if err != nil {
		return nil, err
	}
	if err = h.proofs.ValidateDelivery(p, m, cmd.Code(), cmd.Position()); err != nil {
		return nil, err
	}

	if err = m.Complete(h.rt.now()); err != nil {
		return nil, err
	}
	if err = uow.MissionRepository().Update(ctx, m); err != nil {
		return nil, err
	}

	actor, err := parcel.NewActor(cmd.CourierID(), parcel.RoleCourier)
	if err != nil {
		return nil, err
	}
	target := parcel.Delivered
	if m.Leg() == mission.LegTransit {
		target = parcel.AtDestinationRelay
	}
	err = h.lifecycle.apply(ctx, uow, p, transitionRequest{
		target:   target,
		actor:    actor,
		metadata: map[string]any{"mission_id": m.ID().String()},
	}, fx)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return m, nil
}
