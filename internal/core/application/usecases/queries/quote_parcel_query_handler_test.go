package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pickupoint/internal/adapters/out/postgres/pricingrepo"
	"pickupoint/internal/core/application/usecases/queries"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/pricing"
	"pickupoint/internal/core/domain/services"
	"pickupoint/internal/core/ports"
	"pickupoint/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSupplyDemandReader struct {
	mock.Mock
}

func (m *MockSupplyDemandReader) SupplyDemand(ctx context.Context) (services.SupplyDemand, error) {
	args := m.Called(ctx)
	return args.Get(0).(services.SupplyDemand), args.Error(1)
}

type quoteFixture struct {
	*store
	pricing *pricingrepo.GormPricingRepository
	origin  *kernel.UUID
	dest    *kernel.UUID
}

func newQuoteFixture(t *testing.T) quoteFixture {
	s := newStore(t)
	a, b := point(t, 6.1319, 1.2228), point(t, 6.1725, 1.2314)
	origin, dest := s.relay("Relais Bè", &a).ID(), s.relay("Relais Tokoin", &b).ID()
	return quoteFixture{store: s, pricing: pricingrepo.NewGormPricingRepository(s.db), origin: &origin, dest: &dest}
}

func (f quoteFixture) handler(supply ports.SupplyDemandReader, at time.Time) queries.QuoteParcelQueryHandler {
	return queries.NewQuoteParcelQueryHandler(
		f.db,
		f.pricing,
		supply,
		services.NewPricingEngine(services.DefaultPricingConfig()),
		services.NewDynamicCoefficient(time.UTC),
		kernel.FixedClock{At: at},
		discardLogger(),
	)
}

func (f quoteFixture) relayQuery(t *testing.T, distanceKm float64) queries.QuoteParcelQuery {
	t.Helper()
	query, err := queries.NewQuoteParcelQuery(parcel.Spec{
		Mode:               parcel.RelayToRelay,
		OriginRelayID:      f.origin,
		DestinationRelayID: f.dest,
		WeightKg:           1.5,
	}, &distanceKm)
	require.NoError(t, err)
	return query
}

func Test_QuoteParcelQueryHandler_DefaultTariff(t *testing.T) {
	f := newQuoteFixture(t)
	handler := f.handler(pricingrepo.NewGormSupplyDemandReader(f.db), start)

	quote, err := handler.Handle(context.Background(), f.relayQuery(t, 8))

	require.NoError(t, err)
	assert.True(t, quote.Price.Equal(decimal.NewFromInt(900)), "got %s", quote.Price)
	assert.True(t, quote.Breakdown.Coefficient.Equal(decimal.NewFromInt(1)))
	assert.Nil(t, quote.Breakdown.RuleID)
	assert.Equal(t, 8.0, quote.Breakdown.DistanceKm)
	assert.False(t, quote.Breakdown.DistanceEstimated)
	assert.Equal(t, "XOF", quote.Breakdown.Currency)
}

func Test_QuoteParcelQueryHandler_IsDeterministic(t *testing.T) {
	f := newQuoteFixture(t)
	handler := f.handler(pricingrepo.NewGormSupplyDemandReader(f.db), start)

	first, err := handler.Handle(context.Background(), f.relayQuery(t, 12.3))
	require.NoError(t, err)
	second, err := handler.Handle(context.Background(), f.relayQuery(t, 12.3))
	require.NoError(t, err)

	assert.True(t, first.Price.Equal(second.Price))
	assert.Equal(t, first.Breakdown, second.Breakdown)
}

func Test_QuoteParcelQueryHandler_ComputesDistanceFromRelays(t *testing.T) {
	f := newQuoteFixture(t)
	handler := f.handler(nil, start)

	query, err := queries.NewQuoteParcelQuery(parcel.Spec{
		Mode:               parcel.RelayToRelay,
		OriginRelayID:      f.origin,
		DestinationRelayID: f.dest,
		WeightKg:           1,
	}, nil)
	require.NoError(t, err)

	quote, err := handler.Handle(context.Background(), query)

	require.NoError(t, err)
	assert.False(t, quote.Breakdown.DistanceEstimated)
	assert.InDelta(t, 4.6, quote.Breakdown.DistanceKm, 0.3)
}

func Test_QuoteParcelQueryHandler_UsesZoneRule(t *testing.T) {
	f := newQuoteFixture(t)
	ctx := context.Background()

	north, err := pricing.NewZone(kernel.NewUUID(), "Nord", []kernel.UUID{*f.origin}, true)
	require.NoError(t, err)
	south, err := pricing.NewZone(kernel.NewUUID(), "Sud", []kernel.UUID{*f.dest}, true)
	require.NoError(t, err)
	require.NoError(t, f.pricing.UpsertZone(ctx, north))
	require.NoError(t, f.pricing.UpsertZone(ctx, south))

	northID, southID := north.ID, south.ID
	rule := &pricing.Rule{
		ID:                kernel.NewUUID(),
		Name:              "Nord vers Sud",
		Mode:              parcel.RelayToRelay,
		OriginZoneID:      &northID,
		DestinationZoneID: &southID,
		BasePrice:         decimal.NewFromInt(700),
		PerKm:             decimal.NewFromInt(100),
		PerKg:             decimal.Zero,
		InsuranceRate:     decimal.Zero,
		MinPrice:          decimal.NewFromInt(500),
		Active:            true,
	}
	require.NoError(t, f.pricing.UpsertRule(ctx, rule))

	quote, err := f.handler(nil, start).Handle(ctx, f.relayQuery(t, 8))

	require.NoError(t, err)
	assert.True(t, quote.Price.Equal(decimal.NewFromInt(1500)), "got %s", quote.Price)
	require.NotNil(t, quote.Breakdown.RuleID)
	assert.Equal(t, rule.ID, *quote.Breakdown.RuleID)
	require.NotNil(t, quote.Breakdown.OriginZoneID)
	assert.Equal(t, north.ID, *quote.Breakdown.OriginZoneID)
}

func Test_QuoteParcelQueryHandler_AppliesSurge(t *testing.T) {
	f := newQuoteFixture(t)
	supply := &MockSupplyDemandReader{}
	supply.On("SupplyDemand", mock.Anything).Return(services.SupplyDemand{PendingMissions: 5, AvailableCouriers: 1}, nil)

	quote, err := f.handler(supply, start).Handle(context.Background(), f.relayQuery(t, 8))

	require.NoError(t, err)
	assert.True(t, quote.Price.Equal(decimal.NewFromInt(1350)), "got %s", quote.Price)
	assert.Contains(t, quote.Breakdown.Factors, services.FactorSurgeHigh)
	require.NotNil(t, quote.Breakdown.SupplyRatio)
	assert.Equal(t, 5.0, *quote.Breakdown.SupplyRatio)
	supply.AssertExpectations(t)
}

func Test_QuoteParcelQueryHandler_IgnoresSupplyReaderFailure(t *testing.T) {
	f := newQuoteFixture(t)
	supply := &MockSupplyDemandReader{}
	supply.On("SupplyDemand", mock.Anything).Return(services.SupplyDemand{}, errors.New("connection reset"))

	quote, err := f.handler(supply, start).Handle(context.Background(), f.relayQuery(t, 8))

	require.NoError(t, err)
	assert.True(t, quote.Price.Equal(decimal.NewFromInt(900)))
	assert.Nil(t, quote.Breakdown.SupplyRatio)
}

func Test_QuoteParcelQueryHandler_RushHourOnSunday(t *testing.T) {
	f := newQuoteFixture(t)
	sundayEvening := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)

	quote, err := f.handler(nil, sundayEvening).Handle(context.Background(), f.relayQuery(t, 8))

	require.NoError(t, err)
	// 900 * 1.25 * 1.20 = 1350
	assert.True(t, quote.Price.Equal(decimal.NewFromInt(1350)), "got %s", quote.Price)
	assert.Contains(t, quote.Breakdown.Factors, services.FactorRushHour)
	assert.Contains(t, quote.Breakdown.Factors, services.FactorSunday)
}

func Test_QuoteParcelQueryHandler_UnknownRelay(t *testing.T) {
	f := newQuoteFixture(t)
	missing := kernel.NewUUID()
	query, err := queries.NewQuoteParcelQuery(parcel.Spec{
		Mode:               parcel.RelayToRelay,
		OriginRelayID:      &missing,
		DestinationRelayID: f.dest,
		WeightKg:           1,
	}, nil)
	require.NoError(t, err)

	_, err = f.handler(nil, start).Handle(context.Background(), query)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func Test_QuoteParcelQueryHandler_QuoteParcelMatchesHandle(t *testing.T) {
	f := newQuoteFixture(t)
	handler := f.handler(nil, start)
	spec := parcel.Spec{
		Mode:               parcel.RelayToRelay,
		OriginRelayID:      f.origin,
		DestinationRelayID: f.dest,
		WeightKg:           3,
		DeclaredValue:      decimal.NewFromInt(20000),
		Insured:            true,
	}

	price, err := handler.QuoteParcel(context.Background(), spec)
	require.NoError(t, err)

	query, err := queries.NewQuoteParcelQuery(spec, nil)
	require.NoError(t, err)
	quote, err := handler.Handle(context.Background(), query)
	require.NoError(t, err)

	assert.True(t, price.Equal(quote.Price))
	assert.True(t, quote.Breakdown.InsuranceCost.Equal(decimal.NewFromInt(400)))
}

func Test_NewQuoteParcelQuery_Validation(t *testing.T) {
	zero := 0.0
	tests := []struct {
		name     string
		spec     parcel.Spec
		distance *float64
	}{
		{name: "unknown mode", spec: parcel.Spec{WeightKg: 1}},
		{name: "no weight", spec: parcel.Spec{Mode: parcel.HomeToHome}},
		{name: "negative declared value", spec: parcel.Spec{Mode: parcel.HomeToHome, WeightKg: 1, DeclaredValue: decimal.NewFromInt(-1)}},
		{name: "zero distance", spec: parcel.Spec{Mode: parcel.HomeToHome, WeightKg: 1}, distance: &zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := queries.NewQuoteParcelQuery(tt.spec, tt.distance)
			assert.Error(t, err)
		})
	}

	var q queries.QuoteParcelQuery
	assert.ErrorIs(t, q.Validate(), queries.ErrQuoteParcelQueryIsNotConstructed)
}
