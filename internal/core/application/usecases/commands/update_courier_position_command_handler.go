package commands

import (
	"context"

	"pickupoint/internal/core/domain/model/courier"
	"pickupoint/internal/core/domain/model/kernel"
)

// UpdateCourierPositionCommandHandler stores heartbeats. Reports older than
// the stored position are ignored.
type UpdateCourierPositionCommandHandler struct {
	uowFactory CourierUoWFactory
	clock      kernel.Clock
}

func NewUpdateCourierPositionCommandHandler(uowFactory CourierUoWFactory, clock kernel.Clock) UpdateCourierPositionCommandHandler {
	if clock == nil {
		clock = kernel.SystemClock{}
	}
	return UpdateCourierPositionCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h UpdateCourierPositionCommandHandler) Handle(ctx context.Context, cmd UpdateCourierPositionCommand) (*courier.Courier, error) {
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

	c, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return nil, err
	}
	if pos := cmd.Position(); pos != nil {
		c.UpdatePosition(*pos, h.clock.Now())
	}
	if available := cmd.Available(); available != nil {
		c.SetAvailable(*available)
	}

	if err = uow.CourierRepository().Update(ctx, c); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
