package http

import (
	"errors"
	"net/http"

	"pickupoint/internal/core/application/usecases/commands"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CreateCourier handles POST /api/v1/couriers - onboards a courier.
func (s *Server) CreateCourier(ctx echo.Context) error {
	if _, err := adminFrom(ctx); err != nil {
		return s.fail(ctx, err)
	}
	var newCourier NewCourier
	if err := ctx.Bind(&newCourier); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	position, err := newCourier.Position.point()
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewCreateCourierCommand(newCourier.Name, newCourier.Phone, position)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.h.CreateCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, Created{ID: uuidOf(cmd.CourierID())})
}

// UpdateCourierPosition handles PUT /api/v1/couriers/{courierId}/position -
// the courier's own position and availability toggle.
func (s *Server) UpdateCourierPosition(ctx echo.Context, courierID openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req CourierPositionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	id, idErr := kernelUUID(courierID)
	position, positionErr := req.Position.point()
	if err = errors.Join(idErr, positionErr); err != nil {
		return s.fail(ctx, err)
	}
	if (actor.Role != parcel.RoleCourier && !actor.Role.IsAdministrative()) || !actsFor(actor, id) {
		return s.fail(ctx, errs.NewNotPermittedError(actor.Role, "update another courier's position"))
	}
	cmd, err := commands.NewUpdateCourierPositionCommand(id, position, req.Available)
	if err != nil {
		return s.fail(ctx, err)
	}

	c, err := s.h.UpdateCourierPosition.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, courierOf(c))
}
