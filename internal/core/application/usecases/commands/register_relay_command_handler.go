package commands

import (
	"context"

	"pickupoint/internal/core/domain/model/relay"
)

type RegisterRelayCommandHandler struct {
	uowFactory RelayUoWFactory
}

func NewRegisterRelayCommandHandler(uowFactory RelayUoWFactory) RegisterRelayCommandHandler {
	return RegisterRelayCommandHandler{uowFactory: uowFactory}
}

// Handle returns the stored relay, active.
func (h RegisterRelayCommandHandler) Handle(ctx context.Context, cmd RegisterRelayCommand) (*relay.Relay, error) {
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

	r, err := relay.NewRelay(cmd.Name(), cmd.OwnerID(), cmd.City(), cmd.Point())
	if err != nil {
		return nil, err
	}
	if err = uow.RelayRepository().Add(ctx, r); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return r, nil
}
