package commands

import (
	"context"

	"pickupoint/internal/core/domain/model/courier"
	"pickupoint/internal/core/domain/model/kernel"
)

// CreateCourierCommandHandler registers couriers. New couriers start
// available.
//
// Example:
//
//	handler := NewCreateCourierCommandHandler(uowFactory, clock)
//	cmd, _ := NewCreateCourierCommand("Awa Diop", "+221770000000", nil)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("courier registration failed: %w", err)
//	}
type CreateCourierCommandHandler struct {
	uowFactory CourierUoWFactory
	clock      kernel.Clock
}

// NewCreateCourierCommandHandler falls back to the system clock when clock
// is nil.
func NewCreateCourierCommandHandler(uowFactory CourierUoWFactory, clock kernel.Clock) CreateCourierCommandHandler {
	if clock == nil {
		clock = kernel.SystemClock{}
	}
	return CreateCourierCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h *CreateCourierCommandHandler) Handle(ctx context.Context, cmd CreateCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierEntity, err := courier.NewCourier(cmd.CourierID(), cmd.Name(), cmd.Phone())
	if err != nil {
		return err
	}
	if pos := cmd.Position(); pos != nil {
		courierEntity.UpdatePosition(*pos, h.clock.Now())
	}

	if err = uow.CourierRepository().Add(ctx, courierEntity); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
