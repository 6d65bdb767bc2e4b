package pricingcache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pickupoint/internal/adapters/out/pricingcache"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/pricing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPricingRuleSource struct {
	mock.Mock
}

func (m *MockPricingRuleSource) ActiveRules(ctx context.Context, mode parcel.DeliveryMode) ([]*pricing.Rule, error) {
	args := m.Called(ctx, mode)
	rules, _ := args.Get(0).([]*pricing.Rule)
	return rules, args.Error(1)
}

func (m *MockPricingRuleSource) ActiveZones(ctx context.Context) ([]*pricing.Zone, error) {
	args := m.Called(ctx)
	zones, _ := args.Get(0).([]*pricing.Zone)
	return zones, args.Error(1)
}

func newCache(t *testing.T, source *MockPricingRuleSource, localSize int) (*pricingcache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return pricingcache.New(source, client, time.Minute, localSize), mr
}

func zoneRule(t *testing.T) *pricing.Rule {
	t.Helper()
	origin, destination := kernel.NewUUID(), kernel.NewUUID()
	maxPrice := decimal.NewFromInt(5000)
	return &pricing.Rule{
		ID:                kernel.NewUUID(),
		Name:              "Lomé centre",
		Mode:              parcel.RelayToRelay,
		OriginZoneID:      &origin,
		DestinationZoneID: &destination,
		BasePrice:         decimal.NewFromInt(700),
		PerKm:             decimal.NewFromInt(60),
		PerKg:             decimal.NewFromInt(100),
		InsuranceRate:     decimal.RequireFromString("0.025"),
		MinPrice:          decimal.NewFromInt(500),
		MaxPrice:          &maxPrice,
		Active:            true,
	}
}

func Test_Cache_ActiveRules_ReadsSourceOnce(t *testing.T) {
	rule := zoneRule(t)
	source := &MockPricingRuleSource{}
	source.On("ActiveRules", mock.Anything, parcel.RelayToRelay).Return([]*pricing.Rule{rule}, nil).Once()
	c, mr := newCache(t, source, 0)
	ctx := context.Background()

	first, err := c.ActiveRules(ctx, parcel.RelayToRelay)
	require.NoError(t, err)
	second, err := c.ActiveRules(ctx, parcel.RelayToRelay)
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, first, second)
	got := second[0]
	assert.Equal(t, rule.ID, got.ID)
	assert.Equal(t, *rule.OriginZoneID, *got.OriginZoneID)
	assert.True(t, rule.InsuranceRate.Equal(got.InsuranceRate))
	require.NotNil(t, got.MaxPrice)
	assert.True(t, got.MaxPrice.Equal(decimal.NewFromInt(5000)))
	assert.True(t, mr.Exists("pickupoint:pricing:rules:relay_to_relay"))
	source.AssertExpectations(t)
}

func Test_Cache_Invalidate(t *testing.T) {
	zone, err := pricing.NewZone(kernel.NewUUID(), "Nord", []kernel.UUID{kernel.NewUUID()}, true)
	require.NoError(t, err)
	source := &MockPricingRuleSource{}
	source.On("ActiveZones", mock.Anything).Return([]*pricing.Zone{zone}, nil).Twice()
	source.On("ActiveRules", mock.Anything, parcel.HomeToHome).Return([]*pricing.Rule{}, nil).Twice()
	c, _ := newCache(t, source, 100)
	ctx := context.Background()

	zones, err := c.ActiveZones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.True(t, zones[0].Contains(zone.RelayIDs[0]))
	_, err = c.ActiveRules(ctx, parcel.HomeToHome)
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx))

	_, err = c.ActiveZones(ctx)
	require.NoError(t, err)
	rules, err := c.ActiveRules(ctx, parcel.HomeToHome)
	require.NoError(t, err)
	assert.Empty(t, rules)
	source.AssertExpectations(t)
}

func Test_Cache_SourceErrorIsNotCached(t *testing.T) {
	source := &MockPricingRuleSource{}
	source.On("ActiveZones", mock.Anything).Return(nil, errors.New("db down")).Once()
	source.On("ActiveZones", mock.Anything).Return([]*pricing.Zone{}, nil).Once()
	c, _ := newCache(t, source, 0)

	_, err := c.ActiveZones(context.Background())
	require.Error(t, err)
	zones, err := c.ActiveZones(context.Background())
	require.NoError(t, err)
	assert.Empty(t, zones)
	source.AssertExpectations(t)
}
