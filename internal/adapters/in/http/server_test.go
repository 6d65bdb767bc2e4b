package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pickupoint/internal/adapters/out/offerqueue"
	postgres_adapter "pickupoint/internal/adapters/out/postgres"
	"pickupoint/internal/adapters/out/postgres/dbtest"
	"pickupoint/internal/adapters/out/postgres/pricingrepo"
	"pickupoint/internal/core/application/usecases/commands"
	"pickupoint/internal/core/application/usecases/queries"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/services"
	"pickupoint/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tuesday 10:00 UTC: quotes carry no time-of-day factor.
var start = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

type funcUoWFactory func() commands.UoW

func (f funcUoWFactory) Create() commands.UoW { return f() }

type funcCourierUoWFactory func() commands.CourierUoW

func (f funcCourierUoWFactory) Create() commands.CourierUoW { return f() }

type funcRelayUoWFactory func() commands.RelayUoW

func (f funcRelayUoWFactory) Create() commands.RelayUoW { return f() }

type funcPricingUoWFactory func() commands.PricingUoW

func (f funcPricingUoWFactory) Create() commands.PricingUoW { return f() }

type funcWalletUoWFactory func() commands.WalletUoW

func (f funcWalletUoWFactory) Create() commands.WalletUoW { return f() }

type silentNotifier struct{}

func (silentNotifier) Notify(context.Context, kernel.UUID, string, string, string) error { return nil }

func (silentNotifier) SMS(context.Context, string, string) error { return nil }

type caller struct {
	id   kernel.UUID
	role string
}

var anonymous = caller{}

func as(role string) caller {
	return caller{id: kernel.NewUUID(), role: role}
}

type api struct {
	t     *testing.T
	e     *echo.Echo
	admin caller
}

func newAPI(t *testing.T) *api {
	t.Helper()
	db := dbtest.NewSQLite(t)
	factory := postgres_adapter.NewGormUnitOfWorkFactory(db)
	uows := funcUoWFactory(func() commands.UoW { return factory.Create() })
	clock := kernel.FixedClock{At: start}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rt := commands.Runtime{
		Clock:    clock,
		Policy:   services.DefaultDispatchPolicy(),
		Splitter: services.NewRevenueSplitter(services.DefaultRevenueSplitConfig()),
		Notifier: silentNotifier{},
		Offers:   offerqueue.NewMemoryQueue(),
		Logger:   logger,
		RetryBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
		},
	}
	quotes := queries.NewQuoteParcelQueryHandler(
		db,
		pricingrepo.NewGormPricingRepository(db),
		pricingrepo.NewGormSupplyDemandReader(db),
		services.NewPricingEngine(services.DefaultPricingConfig()),
		services.NewDynamicCoefficient(time.UTC),
		clock,
		logger,
	)

	server := NewServer(Handlers{
		CreateParcel:          commands.NewCreateParcelCommandHandler(uows, commands.QuoterFunc(quotes.QuoteParcel), rt),
		TransitionParcel:      commands.NewTransitionParcelCommandHandler(uows, rt),
		RecordPayment:         commands.NewRecordPaymentCommandHandler(uows, rt),
		AcceptMission:         commands.NewAcceptMissionCommandHandler(uows, rt),
		ReleaseMission:        commands.NewReleaseMissionCommandHandler(uows, rt),
		ConfirmPickup:         commands.NewConfirmPickupCommandHandler(uows, rt),
		ConfirmDelivery:       commands.NewConfirmDeliveryCommandHandler(uows, rt),
		UpdateMissionLocation: commands.NewUpdateMissionLocationCommandHandler(uows, nil, rt),
		ReassignMission:       commands.NewReassignMissionCommandHandler(uows, rt),
		CreateCourier: commands.NewCreateCourierCommandHandler(
			funcCourierUoWFactory(func() commands.CourierUoW { return factory.Create() }), clock),
		UpdateCourierPosition: commands.NewUpdateCourierPositionCommandHandler(
			funcCourierUoWFactory(func() commands.CourierUoW { return factory.Create() }), clock),
		RegisterRelay: commands.NewRegisterRelayCommandHandler(
			funcRelayUoWFactory(func() commands.RelayUoW { return factory.Create() })),
		SetRelayActive: commands.NewSetRelayActiveCommandHandler(
			funcRelayUoWFactory(func() commands.RelayUoW { return factory.Create() })),
		RequestPayout: commands.NewRequestPayoutCommandHandler(
			funcWalletUoWFactory(func() commands.WalletUoW { return factory.Create() }), clock),
		UpsertPricing: commands.NewUpsertPricingCommandHandler(
			funcPricingUoWFactory(func() commands.PricingUoW { return factory.Create() }), nil, logger),

		QuoteParcel:           quotes,
		GetParcel:             queries.NewGetParcelQueryHandler(factory),
		GetParcelTimeline:     queries.NewGetParcelTimelineQueryHandler(factory),
		ListAvailableMissions: queries.NewListAvailableMissionsQueryHandler(db),
		ListCourierMissions:   queries.NewListCourierMissionsQueryHandler(db),
		GetMissionTrail:       queries.NewGetMissionTrailQueryHandler(factory),
		Wallets:               queries.NewWalletQueryHandler(db),
	}, logger)

	e, err := NewRouter(context.Background(), server, logger)
	require.NoError(t, err)
	return &api{t: t, e: e, admin: as("admin")}
}

func (a *api) do(method, path string, by caller, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, BasePath+path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if by.role != "" {
		req.Header.Set(HeaderActorID, by.id.String())
		req.Header.Set(HeaderActorRole, by.role)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (a *api) relay(name string, lat, lng float64) Relay {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/relays", a.admin, map[string]any{
		"name":     name,
		"owner_id": kernel.NewUUID().String(),
		"city":     "Lomé",
		"location": map[string]float64{"lat": lat, "lng": lng},
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[Relay](a.t, rec)
}

func (a *api) courier(name string, lat, lng float64) caller {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/couriers", a.admin, map[string]any{
		"name":     name,
		"phone":    "+22890000000",
		"position": map[string]float64{"lat": lat, "lng": lng},
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[Created](a.t, rec)
	id, err := kernel.UUIDFromGoogle(created.ID)
	require.NoError(a.t, err)
	return caller{id: id, role: "courier"}
}

func relayToRelay(origin, destination Relay) map[string]any {
	return map[string]any{
		"recipient_name":       "Ama Mensah",
		"recipient_phone":      "+228 90 11 22 33",
		"mode":                 "relay_to_relay",
		"origin_relay_id":      origin.ID.String(),
		"destination_relay_id": destination.ID.String(),
		"weight_kg":            1.5,
	}
}

func TestQuoteParcel_DefaultTariff(t *testing.T) {
	a := newAPI(t)
	origin := a.relay("Relais Bè", 6.1319, 1.2228)
	destination := a.relay("Relais Tokoin", 6.1725, 1.2314)

	body := relayToRelay(origin, destination)
	body["distance_km"] = 8
	rec := a.do(http.MethodPost, "/quotes", anonymous, body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	quote := decode[Quote](t, rec)
	assert.True(t, quote.Price.Equal(decimal.NewFromInt(900)), "got %s", quote.Price)
	assert.True(t, quote.Breakdown.Coefficient.Equal(decimal.NewFromInt(1)))
}

func TestParcel_CreateReadAndTrack(t *testing.T) {
	a := newAPI(t)
	origin := a.relay("Relais Bè", 6.1319, 1.2228)
	destination := a.relay("Relais Tokoin", 6.1725, 1.2314)
	sender := as("client")

	rec := a.do(http.MethodPost, "/parcels", sender, relayToRelay(origin, destination))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[Parcel](t, rec)
	assert.Equal(t, "CREATED", created.Status)
	assert.Equal(t, sender.id.String(), created.SenderID.String())
	assert.Equal(t, "pending", created.PaymentStatus)
	assert.True(t, created.QuotedPrice.IsPositive())
	assert.NotEmpty(t, created.TrackingCode)

	rec = a.do(http.MethodGet, "/parcels/"+created.ID.String(), anonymous, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, created.TrackingCode, decode[Parcel](t, rec).TrackingCode)

	rec = a.do(http.MethodGet, "/parcels/track/"+created.TrackingCode, anonymous, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, created.ID, decode[Parcel](t, rec).ID)

	rec = a.do(http.MethodGet, "/parcels/track/PKP-NOPE", anonymous, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodGet, "/parcels/"+created.ID.String()+"/timeline", anonymous, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	timeline := decode[[]TimelineEntry](t, rec)
	require.NotEmpty(t, timeline)
	assert.Equal(t, "PARCEL_CREATED", timeline[0].Kind)
}

func TestTransitionParcel_RejectsIllegalMove(t *testing.T) {
	a := newAPI(t)
	origin := a.relay("Relais Bè", 6.1319, 1.2228)
	destination := a.relay("Relais Tokoin", 6.1725, 1.2314)
	rec := a.do(http.MethodPost, "/parcels", as("client"), relayToRelay(origin, destination))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[Parcel](t, rec)

	rec = a.do(http.MethodPost, "/parcels/"+p.ID.String()+"/transitions", as("relay_agent"),
		map[string]any{"status": "DELIVERED"})

	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	failure := decode[Error](t, rec)
	assert.Equal(t, http.StatusConflict, failure.Code)
}

func TestRequests_WithoutActorHeadersAreUnauthenticated(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodGet, "/missions/mine", anonymous, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdministrativeRoutes_RejectOtherRoles(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/couriers", as("client"), map[string]any{"name": "Kofi", "phone": "+22890000000"})
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/relays", as("courier"), map[string]any{
		"name": "Relais", "owner_id": kernel.NewUUID().String(), "city": "Lomé",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
}

func TestValidation_RejectsRequestsOutsideTheDocument(t *testing.T) {
	a := newAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		by     caller
		body   any
	}{
		{"missing weight", http.MethodPost, "/quotes", anonymous, map[string]any{"mode": "relay_to_relay"}},
		{"unknown mode", http.MethodPost, "/quotes", anonymous, map[string]any{"mode": "by_drone", "weight_kg": 1}},
		{"unknown role", http.MethodGet, "/missions/mine", caller{id: kernel.NewUUID(), role: "system"}, nil},
		{"limit too large", http.MethodGet, fmt.Sprintf("/wallets/courier/%s/transactions?limit=1000", kernel.NewUUID()), as("admin"), nil},
		{"money as number", http.MethodPost, "/payments/webhook", anonymous, map[string]any{"succeeded": true, "amount": 1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(tt.method, tt.path, tt.by, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestHealthAndUnknownRoutesBypassValidation(t *testing.T) {
	a := newAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())

	rec = a.do(http.MethodGet, "/nowhere", anonymous, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCourierMissionFlow(t *testing.T) {
	a := newAPI(t)
	origin := a.relay("Relais Bè", 6.1319, 1.2228)
	destination := a.relay("Relais Tokoin", 6.1725, 1.2314)
	kofi := a.courier("Kofi", 6.1321, 1.2230)
	agent := as("relay_agent")

	rec := a.do(http.MethodPost, "/parcels", as("client"), relayToRelay(origin, destination))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[Parcel](t, rec)

	rec = a.do(http.MethodPost, "/parcels/"+p.ID.String()+"/transitions", agent,
		map[string]any{"status": "DROPPED_AT_ORIGIN_RELAY", "note": "counter 2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/missions/available?lat=6.1321&lng=1.2230&radius_km=5", kofi, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	available := decode[[]MissionSummary](t, rec)
	require.Len(t, available, 1)
	missionID := available[0].ID.String()
	assert.Equal(t, p.ID, available[0].ParcelID)

	rec = a.do(http.MethodPost, "/missions/"+missionID+"/accept", kofi, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "assigned", decode[Mission](t, rec).Status)

	rec = a.do(http.MethodPost, "/missions/"+missionID+"/accept", a.courier("Yao", 6.2, 1.3), nil)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/missions/"+missionID+"/pickup", kofi, map[string]string{"code": p.PickupCode})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "in_progress", decode[Mission](t, rec).Status)

	rec = a.do(http.MethodPost, "/missions/"+missionID+"/location", kofi, map[string]float64{"lat": 6.15, "lng": 1.227})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/missions/"+missionID+"/trail", kofi, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode[MissionTrail](t, rec).Points)

	rec = a.do(http.MethodGet, "/missions/"+missionID+"/trail", as("client"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/missions/"+missionID+"/deliver", kofi, map[string]any{
		"position": map[string]float64{"lat": 6.1726, "lng": 1.2315},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "completed", decode[Mission](t, rec).Status)

	rec = a.do(http.MethodGet, "/parcels/"+p.ID.String(), anonymous, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AT_DESTINATION_RELAY", decode[Parcel](t, rec).Status)

	rec = a.do(http.MethodGet, "/missions/mine", kofi, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestWallets_OnlyOwnerOrAdmin(t *testing.T) {
	a := newAPI(t)
	kofi := a.courier("Kofi", 6.1321, 1.2230)
	yao := a.courier("Yao", 6.2, 1.3)

	rec := a.do(http.MethodGet, "/wallets/courier/"+kofi.id.String(), yao, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/wallets/courier/"+kofi.id.String()+"/payouts", kofi, map[string]string{"amount": "500"})
	assert.Contains(t, []int{http.StatusPaymentRequired, http.StatusNotFound}, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/wallets/courier/"+kofi.id.String()+"/transactions?limit=10", a.admin, nil)
	assert.NotEqual(t, http.StatusForbidden, rec.Code, rec.Body.String())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errUnauthenticated, http.StatusUnauthorized},
		{errs.NewObjectNotFoundError("parcel", "x"), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", errs.ErrNotPermitted), http.StatusForbidden},
		{errs.ErrPaymentPending, http.StatusPaymentRequired},
		{errs.ErrInsufficientFunds, http.StatusPaymentRequired},
		{errs.ErrAlreadyAssigned, http.StatusConflict},
		{errs.ErrIllegalTransition, http.StatusConflict},
		{errs.ErrVersionIsInvalid, http.StatusConflict},
		{errs.ErrInvalidCode, http.StatusUnprocessableEntity},
		{errs.NewValueIsRequiredError("name"), http.StatusUnprocessableEntity},
		{errs.ErrRetryable, http.StatusServiceUnavailable},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "%v", tt.err)
	}
}
