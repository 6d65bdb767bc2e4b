package http

import (
	"errors"
	"net/http"

	"pickupoint/internal/core/application/usecases/commands"
	"pickupoint/internal/core/application/usecases/queries"
	"pickupoint/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ListAvailableMissions handles GET /api/v1/missions/available - the missions
// the calling courier may accept, nearest pickup first when lat/lng are given.
func (s *Server) ListAvailableMissions(ctx echo.Context, params ListAvailableMissionsParams) error {
	courierID, err := courierFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	position, err := kernel.OptionalGeoPoint(params.Lat, params.Lng)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewListAvailableMissionsQuery(courierID, position, params.RadiusKm)
	if err != nil {
		return s.fail(ctx, err)
	}

	missions, err := s.h.ListAvailableMissions.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, summariesOf(missions))
}

// ListMyMissions handles GET /api/v1/missions/mine - the calling courier's missions.
func (s *Server) ListMyMissions(ctx echo.Context) error {
	courierID, err := courierFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewListCourierMissionsQuery(courierID)
	if err != nil {
		return s.fail(ctx, err)
	}

	missions, err := s.h.ListCourierMissions.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, summariesOf(missions))
}

// AcceptMission handles POST /api/v1/missions/{missionId}/accept.
func (s *Server) AcceptMission(ctx echo.Context, missionID openapi_types.UUID) error {
	courierID, err := courierFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	id, err := kernelUUID(missionID)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewAcceptMissionCommand(id, courierID)
	if err != nil {
		return s.fail(ctx, err)
	}

	m, err := s.h.AcceptMission.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, missionOf(m))
}

// ReleaseMission handles POST /api/v1/missions/{missionId}/release - the
// courier gives the mission back, or an admin takes it away.
func (s *Server) ReleaseMission(ctx echo.Context, missionID openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req ReasonRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	id, err := kernelUUID(missionID)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewReleaseMissionCommand(id, actor, req.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}

	m, err := s.h.ReleaseMission.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, missionOf(m))
}

// ConfirmPickup handles POST /api/v1/missions/{missionId}/pickup - proof of
// pickup with the parcel's pickup code.
func (s *Server) ConfirmPickup(ctx echo.Context, missionID openapi_types.UUID) error {
	courierID, err := courierFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req PickupRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	id, err := kernelUUID(missionID)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewConfirmPickupCommand(id, courierID, req.Code)
	if err != nil {
		return s.fail(ctx, err)
	}

	m, err := s.h.ConfirmPickup.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, missionOf(m))
}

// ConfirmDelivery handles POST /api/v1/missions/{missionId}/deliver - proof
// of delivery with the recipient's code, inside the geofence for home drops.
func (s *Server) ConfirmDelivery(ctx echo.Context, missionID openapi_types.UUID) error {
	courierID, err := courierFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req DeliveryRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	id, idErr := kernelUUID(missionID)
	position, positionErr := req.Position.point()
	if err = errors.Join(idErr, positionErr); err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewConfirmDeliveryCommand(id, courierID, req.Code, position)
	if err != nil {
		return s.fail(ctx, err)
	}

	m, err := s.h.ConfirmDelivery.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, missionOf(m))
}

// UpdateMissionLocation handles POST /api/v1/missions/{missionId}/location - a GPS ping.
func (s *Server) UpdateMissionLocation(ctx echo.Context, missionID openapi_types.UUID) error {
	courierID, err := courierFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req Location
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	id, idErr := kernelUUID(missionID)
	point, pointErr := kernel.NewGeoPoint(req.Lat, req.Lng)
	if err = errors.Join(idErr, pointErr); err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewUpdateMissionLocationCommand(id, courierID, point)
	if err != nil {
		return s.fail(ctx, err)
	}

	m, err := s.h.UpdateMissionLocation.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, missionOf(m))
}

// ReassignMission handles POST /api/v1/missions/{missionId}/reassign - admin override.
func (s *Server) ReassignMission(ctx echo.Context, missionID openapi_types.UUID) error {
	actor, err := adminFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req ReassignRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	id, idErr := kernelUUID(missionID)
	courierID, courierErr := kernelUUID(req.CourierID)
	if err = errors.Join(idErr, courierErr); err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewReassignMissionCommand(id, courierID, actor, req.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}

	m, err := s.h.ReassignMission.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, missionOf(m))
}

// GetMissionTrail handles GET /api/v1/missions/{missionId}/trail.
func (s *Server) GetMissionTrail(ctx echo.Context, missionID openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	id, err := kernelUUID(missionID)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetMissionTrailQuery(id, actor)
	if err != nil {
		return s.fail(ctx, err)
	}

	trail, err := s.h.GetMissionTrail.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, trailOf(trail))
}
