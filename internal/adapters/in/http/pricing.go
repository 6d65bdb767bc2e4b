package http

import (
	"errors"
	"net/http"

	"pickupoint/internal/core/application/usecases/commands"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/pricing"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// UpsertPricingRule handles PUT /api/v1/pricing/rules/{ruleId}.
func (s *Server) UpsertPricingRule(ctx echo.Context, ruleID openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req PricingRuleRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	id, idErr := kernelUUID(ruleID)
	mode, modeErr := parcel.ParseDeliveryMode(req.Mode)
	originZone, originErr := optionalKernelUUID(req.OriginZoneID)
	destinationZone, destinationErr := optionalKernelUUID(req.DestinationZoneID)
	if err = errors.Join(idErr, modeErr, originErr, destinationErr); err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewUpsertPricingRuleCommand(pricing.Rule{
		ID:                id,
		Name:              req.Name,
		Mode:              mode,
		OriginZoneID:      originZone,
		DestinationZoneID: destinationZone,
		BasePrice:         req.BasePrice,
		PerKm:             req.PerKm,
		PerKg:             req.PerKg,
		InsuranceRate:     req.InsuranceRate,
		MinPrice:          req.MinPrice,
		MaxPrice:          req.MaxPrice,
		Active:            req.Active,
	}, actor)
	if err != nil {
		return s.fail(ctx, err)
	}

	rule, err := s.h.UpsertPricing.HandleRule(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, ruleOf(rule))
}

// UpsertPricingZone handles PUT /api/v1/pricing/zones/{zoneId}.
func (s *Server) UpsertPricingZone(ctx echo.Context, zoneID openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req PricingZoneRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	id, err := kernelUUID(zoneID)
	if err != nil {
		return s.fail(ctx, err)
	}
	relayIDs := make([]kernel.UUID, 0, len(req.RelayIDs))
	for _, raw := range req.RelayIDs {
		relayID, idErr := kernelUUID(raw)
		if idErr != nil {
			return s.fail(ctx, idErr)
		}
		relayIDs = append(relayIDs, relayID)
	}
	cmd, err := commands.NewUpsertPricingZoneCommand(id, req.Name, relayIDs, req.Active, actor)
	if err != nil {
		return s.fail(ctx, err)
	}

	zone, err := s.h.UpsertPricing.HandleZone(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, zoneOf(zone))
}
