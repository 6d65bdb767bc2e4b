package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// BasePath prefixes every API route.
const BasePath = "/api/v1"

// ListAvailableMissionsParams defines parameters for ListAvailableMissions.
type ListAvailableMissionsParams struct {
	Lat      *float64 `form:"lat,omitempty" json:"lat,omitempty"`
	Lng      *float64 `form:"lng,omitempty" json:"lng,omitempty"`
	RadiusKm *float64 `form:"radius_km,omitempty" json:"radius_km,omitempty"`
}

// ListWalletTransactionsParams defines parameters for ListWalletTransactions.
type ListWalletTransactionsParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

// ServerInterface represents all server handlers of openapi.yaml.
type ServerInterface interface {
	// (POST /quotes)
	QuoteParcel(ctx echo.Context) error
	// (POST /parcels)
	CreateParcel(ctx echo.Context) error
	// (GET /parcels/{parcelId})
	GetParcel(ctx echo.Context, parcelID openapi_types.UUID) error
	// (GET /parcels/track/{trackingCode})
	TrackParcel(ctx echo.Context, trackingCode string) error
	// (GET /parcels/{parcelId}/timeline)
	GetParcelTimeline(ctx echo.Context, parcelID openapi_types.UUID) error
	// (POST /parcels/{parcelId}/transitions)
	TransitionParcel(ctx echo.Context, parcelID openapi_types.UUID) error
	// (POST /payments/webhook)
	RecordPayment(ctx echo.Context) error

	// (GET /missions/available)
	ListAvailableMissions(ctx echo.Context, params ListAvailableMissionsParams) error
	// (GET /missions/mine)
	ListMyMissions(ctx echo.Context) error
	// (POST /missions/{missionId}/accept)
	AcceptMission(ctx echo.Context, missionID openapi_types.UUID) error
	// (POST /missions/{missionId}/release)
	ReleaseMission(ctx echo.Context, missionID openapi_types.UUID) error
	// (POST /missions/{missionId}/pickup)
	ConfirmPickup(ctx echo.Context, missionID openapi_types.UUID) error
	// (POST /missions/{missionId}/deliver)
	ConfirmDelivery(ctx echo.Context, missionID openapi_types.UUID) error
	// (POST /missions/{missionId}/location)
	UpdateMissionLocation(ctx echo.Context, missionID openapi_types.UUID) error
	// (POST /missions/{missionId}/reassign)
	ReassignMission(ctx echo.Context, missionID openapi_types.UUID) error
	// (GET /missions/{missionId}/trail)
	GetMissionTrail(ctx echo.Context, missionID openapi_types.UUID) error

	// (POST /couriers)
	CreateCourier(ctx echo.Context) error
	// (PUT /couriers/{courierId}/position)
	UpdateCourierPosition(ctx echo.Context, courierID openapi_types.UUID) error

	// (POST /relays)
	RegisterRelay(ctx echo.Context) error
	// (PUT /relays/{relayId}/active)
	SetRelayActive(ctx echo.Context, relayID openapi_types.UUID) error

	// (GET /wallets/{ownerKind}/{ownerId})
	GetWallet(ctx echo.Context, ownerKind string, ownerID openapi_types.UUID) error
	// (GET /wallets/{ownerKind}/{ownerId}/transactions)
	ListWalletTransactions(ctx echo.Context, ownerKind string, ownerID openapi_types.UUID, params ListWalletTransactionsParams) error
	// (POST /wallets/{ownerKind}/{ownerId}/payouts)
	RequestPayout(ctx echo.Context, ownerKind string, ownerID openapi_types.UUID) error

	// (PUT /pricing/rules/{ruleId})
	UpsertPricingRule(ctx echo.Context, ruleID openapi_types.UUID) error
	// (PUT /pricing/zones/{zoneId})
	UpsertPricingZone(ctx echo.Context, zoneID openapi_types.UUID) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func pathParam(ctx echo.Context, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

func queryParam(ctx echo.Context, name string, dest any) error {
	err := runtime.BindQueryParameter("form", true, false, name, ctx.QueryParams(), dest)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

// withUUID adapts a handler taking one UUID path parameter.
func withUUID(name string, handle func(echo.Context, openapi_types.UUID) error) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var id openapi_types.UUID
		if err := pathParam(ctx, name, &id); err != nil {
			return err
		}
		return handle(ctx, id)
	}
}

func (w *ServerInterfaceWrapper) TrackParcel(ctx echo.Context) error {
	var trackingCode string
	if err := pathParam(ctx, "trackingCode", &trackingCode); err != nil {
		return err
	}
	return w.Handler.TrackParcel(ctx, trackingCode)
}

func (w *ServerInterfaceWrapper) ListAvailableMissions(ctx echo.Context) error {
	var params ListAvailableMissionsParams
	if err := queryParam(ctx, "lat", &params.Lat); err != nil {
		return err
	}
	if err := queryParam(ctx, "lng", &params.Lng); err != nil {
		return err
	}
	if err := queryParam(ctx, "radius_km", &params.RadiusKm); err != nil {
		return err
	}
	return w.Handler.ListAvailableMissions(ctx, params)
}

func (w *ServerInterfaceWrapper) walletOwner(ctx echo.Context) (string, openapi_types.UUID, error) {
	var (
		ownerKind string
		ownerID   openapi_types.UUID
	)
	if err := pathParam(ctx, "ownerKind", &ownerKind); err != nil {
		return "", ownerID, err
	}
	if err := pathParam(ctx, "ownerId", &ownerID); err != nil {
		return "", ownerID, err
	}
	return ownerKind, ownerID, nil
}

func (w *ServerInterfaceWrapper) GetWallet(ctx echo.Context) error {
	kind, id, err := w.walletOwner(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetWallet(ctx, kind, id)
}

func (w *ServerInterfaceWrapper) ListWalletTransactions(ctx echo.Context) error {
	kind, id, err := w.walletOwner(ctx)
	if err != nil {
		return err
	}
	var params ListWalletTransactionsParams
	if err = queryParam(ctx, "limit", &params.Limit); err != nil {
		return err
	}
	return w.Handler.ListWalletTransactions(ctx, kind, id, params)
}

func (w *ServerInterfaceWrapper) RequestPayout(ctx echo.Context) error {
	kind, id, err := w.walletOwner(ctx)
	if err != nil {
		return err
	}
	return w.Handler.RequestPayout(ctx, kind, id)
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlersWithBaseURL adds each server route to the router under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/quotes", si.QuoteParcel)
	router.POST(baseURL+"/parcels", si.CreateParcel)
	router.GET(baseURL+"/parcels/track/:trackingCode", w.TrackParcel)
	router.GET(baseURL+"/parcels/:parcelId", withUUID("parcelId", si.GetParcel))
	router.GET(baseURL+"/parcels/:parcelId/timeline", withUUID("parcelId", si.GetParcelTimeline))
	router.POST(baseURL+"/parcels/:parcelId/transitions", withUUID("parcelId", si.TransitionParcel))
	router.POST(baseURL+"/payments/webhook", si.RecordPayment)

	router.GET(baseURL+"/missions/available", w.ListAvailableMissions)
	router.GET(baseURL+"/missions/mine", si.ListMyMissions)
	router.POST(baseURL+"/missions/:missionId/accept", withUUID("missionId", si.AcceptMission))
	router.POST(baseURL+"/missions/:missionId/release", withUUID("missionId", si.ReleaseMission))
	router.POST(baseURL+"/missions/:missionId/pickup", withUUID("missionId", si.ConfirmPickup))
	router.POST(baseURL+"/missions/:missionId/deliver", withUUID("missionId", si.ConfirmDelivery))
	router.POST(baseURL+"/missions/:missionId/location", withUUID("missionId", si.UpdateMissionLocation))
	router.POST(baseURL+"/missions/:missionId/reassign", withUUID("missionId", si.ReassignMission))
	router.GET(baseURL+"/missions/:missionId/trail", withUUID("missionId", si.GetMissionTrail))

	router.POST(baseURL+"/couriers", si.CreateCourier)
	router.PUT(baseURL+"/couriers/:courierId/position", withUUID("courierId", si.UpdateCourierPosition))

	router.POST(baseURL+"/relays", si.RegisterRelay)
	router.PUT(baseURL+"/relays/:relayId/active", withUUID("relayId", si.SetRelayActive))

	router.GET(baseURL+"/wallets/:ownerKind/:ownerId", w.GetWallet)
	router.GET(baseURL+"/wallets/:ownerKind/:ownerId/transactions", w.ListWalletTransactions)
	router.POST(baseURL+"/wallets/:ownerKind/:ownerId/payouts", w.RequestPayout)

	router.PUT(baseURL+"/pricing/rules/:ruleId", withUUID("ruleId", si.UpsertPricingRule))
	router.PUT(baseURL+"/pricing/zones/:zoneId", withUUID("zoneId", si.UpsertPricingZone))
}
