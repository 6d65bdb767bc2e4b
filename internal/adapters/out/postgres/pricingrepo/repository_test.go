package pricingrepo_test

import (
	"testing"
	"time"

	postgres_adapter "pickupoint/internal/adapters/out/postgres"
	"pickupoint/internal/adapters/out/postgres/dbtest"
	"pickupoint/internal/adapters/out/postgres/pricingrepo"
	"pickupoint/internal/core/domain/model/courier"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/pricing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPricingRepository_UpsertAndList(t *testing.T) {
	ctx := t.Context()
	repo := pricingrepo.NewGormPricingRepository(dbtest.NewSQLite(t))

	relayA, relayB := kernel.NewUUID(), kernel.NewUUID()
	zone, err := pricing.NewZone(kernel.NewUUID(), "Lomé centre", []kernel.UUID{relayA, relayB}, true)
	require.NoError(t, err)
	require.NoError(t, repo.UpsertZone(ctx, zone))

	maxPrice := decimal.NewFromInt(5000)
	rule := &pricing.Rule{
		ID:                kernel.NewUUID(),
		Name:              "intra-centre",
		Mode:              parcel.RelayToRelay,
		OriginZoneID:      &zone.ID,
		DestinationZoneID: &zone.ID,
		BasePrice:         decimal.NewFromInt(400),
		PerKm:             decimal.NewFromInt(40),
		PerKg:             decimal.NewFromInt(100),
		InsuranceRate:     decimal.RequireFromString("0.02"),
		MinPrice:          decimal.NewFromInt(400),
		MaxPrice:          &maxPrice,
		Active:            true,
	}
	require.NoError(t, repo.UpsertRule(ctx, rule))

	rule.BasePrice = decimal.NewFromInt(450)
	require.NoError(t, repo.UpsertRule(ctx, rule))

	rules, err := repo.ActiveRules(ctx, parcel.RelayToRelay)
	require.NoError(t, err)
	require.Len(t, rules, 1, "upsert overwrites")
	assert.True(t, rules[0].BasePrice.Equal(decimal.NewFromInt(450)))
	require.NotNil(t, rules[0].MaxPrice)
	assert.True(t, rules[0].MaxPrice.Equal(maxPrice))
	assert.True(t, zone.ID.IsEqualOptional(rules[0].OriginZoneID))

	none, err := repo.ActiveRules(ctx, parcel.HomeToHome)
	require.NoError(t, err)
	assert.Empty(t, none)

	zones, err := repo.ActiveZones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.True(t, zones[0].Contains(relayB))
}

func TestGormSupplyDemandReader(t *testing.T) {
	ctx := t.Context()
	db := dbtest.NewSQLite(t)
	uow := postgres_adapter.NewGormUnitOfWorkFactory(db).Create()
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	for range 3 {
		point, _ := kernel.NewGeoPoint(6.13, 1.22)
		place, _ := mission.NewGPSPlace(point, "", "")
		m, err := mission.NewMission(kernel.NewUUID(), mission.LegDelivery, place, place, decimal.NewFromInt(500), now)
		require.NoError(t, err)
		require.NoError(t, uow.MissionRepository().Add(ctx, m))
	}
	for i := range 2 {
		c, _ := courier.NewCourier(kernel.NewUUID(), gofakeit.Name(), gofakeit.Phone())
		c.SetAvailable(i == 0)
		require.NoError(t, uow.CourierRepository().Add(ctx, c))
	}

	sd, err := pricingrepo.NewGormSupplyDemandReader(db).SupplyDemand(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sd.PendingMissions)
	assert.Equal(t, 1, sd.AvailableCouriers)
	assert.InDelta(t, 3.0, sd.Ratio(), 1e-9)
}
