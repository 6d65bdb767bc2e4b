package commands

import (
	"context"
	"errors"

	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/pkg/errs"
)

// AdvanceOfferCommandHandler moves an expired exclusive offer to the next
// ranked courier, or opens the mission to every courier once the list runs
// out.
//
// Queue entries are at-least-once: an entry for a mission that was accepted,
// cancelled or already advanced is a no-op, and one that fired before the
// current offer expires is put back at the right time. Storage failures come
// back as errs.ErrRetryable so the caller can queue the entry again.
type AdvanceOfferCommandHandler struct {
	uowFactory UoWFactory
	rt         Runtime
	dispatcher dispatcher
}

func NewAdvanceOfferCommandHandler(uowFactory UoWFactory, rt Runtime) AdvanceOfferCommandHandler {
	return AdvanceOfferCommandHandler{
		uowFactory: uowFactory,
		rt:         rt,
		dispatcher: newDispatcher(rt),
	}
}

// Handle reports whether the cascade moved.
func (h AdvanceOfferCommandHandler) Handle(ctx context.Context, cmd AdvanceOfferCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, retryable("begin advance offer", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	m, err := uow.MissionRepository().Get(ctx, cmd.MissionID())
	if err != nil {
		return false, retryable("load mission", err)
	}

	now := h.rt.now()
	fx := newEffects(h.rt)
	offeree, changed := m.AdvanceOffer(h.rt.Policy.OfferWindow, now)
	if !changed {
		if at := m.Cascade().OfferExpiresAt; m.Status() == mission.Pending && at != nil && at.After(now) {
			fx.scheduleOffer(m.ID(), *at)
			fx.flush(ctx)
		}
		return false, nil
	}

	if err = uow.MissionRepository().Update(ctx, m); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			return false, nil
		}
		return false, retryable("update mission", err)
	}
	if err = uow.Commit(ctx); err != nil {
		return false, retryable("commit advance offer", err)
	}

	if offeree == nil {
		h.rt.logger().InfoContext(ctx, "mission opened to all couriers", "mission_id", m.ID().String())
	}
	h.dispatcher.queueOffer(fx, m, offeree)
	fx.flush(ctx)

	return true, nil
}
