package commands_test

import (
	"context"
	"errors"
	"testing"

	"pickupoint/internal/core/application/usecases/commands"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/pricing"
	"pickupoint/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPricingCacheInvalidator struct {
	mock.Mock
}

func (m *MockPricingCacheInvalidator) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (w *world) pricingHandler(cache *MockPricingCacheInvalidator) commands.UpsertPricingCommandHandler {
	return commands.NewUpsertPricingCommandHandler(
		funcPricingUoWFactory(func() commands.PricingUoW { return w.factory.Create() }),
		cache,
		w.rt.Logger,
	)
}

func relayRule() pricing.Rule {
	maxPrice := decimal.NewFromInt(5000)
	return pricing.Rule{
		ID:        kernel.NewUUID(),
		Name:      "Relay standard",
		Mode:      parcel.RelayToRelay,
		BasePrice: decimal.NewFromInt(500),
		PerKm:     decimal.NewFromInt(50),
		PerKg:     decimal.NewFromInt(100),
		MinPrice:  decimal.NewFromInt(700),
		MaxPrice:  &maxPrice,
		Active:    true,
	}
}

func TestUpsertPricingRule_StoresAndInvalidatesCache(t *testing.T) {
	w := newWorld(t)
	cache := new(MockPricingCacheInvalidator)
	cache.On("Invalidate", mock.Anything).Return(nil).Twice()
	handler := w.pricingHandler(cache)
	admin := actor(t, parcel.RoleAdmin)

	rule := relayRule()
	cmd, err := commands.NewUpsertPricingRuleCommand(rule, admin)
	require.NoError(t, err)
	_, err = handler.HandleRule(context.Background(), cmd)
	require.NoError(t, err)

	rule.BasePrice = decimal.NewFromInt(600)
	cmd, err = commands.NewUpsertPricingRuleCommand(rule, admin)
	require.NoError(t, err)
	_, err = handler.HandleRule(context.Background(), cmd)
	require.NoError(t, err)

	rules, err := w.factory.Create().PricingRepository().ActiveRules(context.Background(), parcel.RelayToRelay)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.True(t, decimal.NewFromInt(600).Equal(rules[0].BasePrice))
	cache.AssertExpectations(t)
}

func TestUpsertPricingRule_CacheFailureIsNotFatal(t *testing.T) {
	w := newWorld(t)
	cache := new(MockPricingCacheInvalidator)
	cache.On("Invalidate", mock.Anything).Return(errors.New("redis down")).Once()

	cmd, err := commands.NewUpsertPricingRuleCommand(relayRule(), actor(t, parcel.RoleAdmin))
	require.NoError(t, err)

	_, err = w.pricingHandler(cache).HandleRule(context.Background(), cmd)
	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestUpsertPricingZone(t *testing.T) {
	w := newWorld(t)
	cache := new(MockPricingCacheInvalidator)
	cache.On("Invalidate", mock.Anything).Return(nil).Once()
	r := w.relay("Bè", 6.1319, 1.2228)

	cmd, err := commands.NewUpsertPricingZoneCommand(kernel.NewUUID(), "Lomé centre", []kernel.UUID{r.ID()}, true, actor(t, parcel.RoleAdmin))
	require.NoError(t, err)

	zone, err := w.pricingHandler(cache).HandleZone(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, zone.Contains(r.ID()))

	zones, err := w.factory.Create().PricingRepository().ActiveZones(context.Background())
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Lomé centre", zones[0].Name)
}

func TestUpsertPricing_RequiresAdministrator(t *testing.T) {
	_, err := commands.NewUpsertPricingRuleCommand(relayRule(), actor(t, parcel.RoleRelayAgent))
	require.ErrorIs(t, err, errs.ErrNotPermitted)

	_, err = commands.NewUpsertPricingZoneCommand(kernel.NewUUID(), "Zone", nil, true, actor(t, parcel.RoleCourier))
	require.ErrorIs(t, err, errs.ErrNotPermitted)
}

func TestNewUpsertPricingRuleCommand_RejectsInvalidRule(t *testing.T) {
	rule := relayRule()
	low := decimal.NewFromInt(100)
	rule.MaxPrice = &low

	_, err := commands.NewUpsertPricingRuleCommand(rule, actor(t, parcel.RoleAdmin))
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
