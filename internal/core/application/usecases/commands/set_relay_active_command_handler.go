package commands

import (
	"context"

	"pickupoint/internal/core/domain/model/relay"
)

type SetRelayActiveCommandHandler struct {
	uowFactory RelayUoWFactory
}

func NewSetRelayActiveCommandHandler(uowFactory RelayUoWFactory) SetRelayActiveCommandHandler {
	return SetRelayActiveCommandHandler{uowFactory: uowFactory}
}

func (h SetRelayActiveCommandHandler) Handle(ctx context.Context, cmd SetRelayActiveCommand) (*relay.Relay, error) {
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

	r, err := uow.RelayRepository().Get(ctx, cmd.RelayID())
	if err != nil {
		return nil, err
	}
	if cmd.Active() {
		r.Activate()
	} else {
		r.Deactivate()
	}
	if err = uow.RelayRepository().Update(ctx, r); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return r, nil
}
