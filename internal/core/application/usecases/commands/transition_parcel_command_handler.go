package commands

import (
	"context"

	"pickupoint/internal/core/domain/model/parcel"
)

// TransitionParcelCommandHandler is the single entry point for parcel status
// changes. The status update, its audit event and every side effect (mission
// creation or closure, redirect, revenue split) commit together; a ledger
// failure retries the whole unit of work. Notifications go out after commit.
//
// Example:
//
//	handler := NewTransitionParcelCommandHandler(uowFactory, runtime)
//	p, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrIllegalTransition):
//	    // 409
//	case errors.Is(err, errs.ErrNotPermitted):
//	    // 403
//	}
type TransitionParcelCommandHandler struct {
	uowFactory UoWFactory
	rt         Runtime
	lifecycle  lifecycle
}

func NewTransitionParcelCommandHandler(uowFactory UoWFactory, rt Runtime) TransitionParcelCommandHandler {
	return TransitionParcelCommandHandler{
		uowFactory: uowFactory,
		rt:         rt,
		lifecycle:  newLifecycle(rt),
	}
}

// Handle returns the parcel as committed.
func (h TransitionParcelCommandHandler) Handle(ctx context.Context, cmd TransitionParcelCommand) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var fx *effects
	p, err := retryUnitOfWork(ctx, h.rt, "transition parcel", func() (*parcel.Parcel, error) {
		fx = newEffects(h.rt)
		return h.attempt(ctx, cmd, fx)
	})
	if err != nil {
		return nil, err
	}

	fx.flush(ctx)
	return p, nil
}

func (h TransitionParcelCommandHandler) attempt(ctx context.Context, cmd TransitionParcelCommand, fx *effects) (*parcel.Parcel, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.ParcelRepository().Get(ctx, cmd.ParcelID())
	if err != nil {
		return nil, err
	}

	err = h.lifecycle.apply(ctx, uow, p, transitionRequest{
		target:   cmd.Target(),
		actor:    cmd.Actor(),
		note:     cmd.Note(),
		metadata: cmd.Metadata(),
	}, fx)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return p, nil
}
