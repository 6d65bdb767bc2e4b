package http

import (
	"errors"
	"net/http"

	"pickupoint/internal/core/application/usecases/commands"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// RegisterRelay handles POST /api/v1/relays - adds a relay point to the network.
func (s *Server) RegisterRelay(ctx echo.Context) error {
	if _, err := adminFrom(ctx); err != nil {
		return s.fail(ctx, err)
	}
	var newRelay NewRelay
	if err := ctx.Bind(&newRelay); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	ownerID, ownerErr := kernelUUID(newRelay.OwnerID)
	location, locationErr := newRelay.Location.point()
	if err := errors.Join(ownerErr, locationErr); err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewRegisterRelayCommand(newRelay.Name, ownerID, newRelay.City, location)
	if err != nil {
		return s.fail(ctx, err)
	}

	r, err := s.h.RegisterRelay.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, relayOf(r))
}

// SetRelayActive handles PUT /api/v1/relays/{relayId}/active. Inactive relays
// are never picked as redirect targets.
func (s *Server) SetRelayActive(ctx echo.Context, relayID openapi_types.UUID) error {
	if _, err := adminFrom(ctx); err != nil {
		return s.fail(ctx, err)
	}
	var req RelayActiveRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	id, err := kernelUUID(relayID)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewSetRelayActiveCommand(id, req.Active)
	if err != nil {
		return s.fail(ctx, err)
	}

	r, err := s.h.SetRelayActive.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, relayOf(r))
}
