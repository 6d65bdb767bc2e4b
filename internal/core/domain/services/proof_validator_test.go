package services_test

import (
	"testing"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/services"
	"pickupoint/internal/pkg/errs"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func homeDelivery(t *testing.T) (*parcel.Parcel, *mission.Mission) {
	t.Helper()
	pickupPoint, _ := kernel.NewGeoPoint(6.1319, 1.2228)
	dropPoint, _ := kernel.NewGeoPoint(6.1725, 1.2314)

	p, err := parcel.NewParcel(parcel.Spec{
		SenderID:       kernel.NewUUID(),
		RecipientName:  gofakeit.Name(),
		RecipientPhone: gofakeit.Phone(),
		Mode:           parcel.HomeToHome,
		OriginPoint:    &pickupPoint,
		DeliveryPoint:  &dropPoint,
		WeightKg:       1,
	}, decimal.NewFromInt(1500), now)
	require.NoError(t, err)

	pickup, _ := mission.NewGPSPlace(pickupPoint, "sender", "Lomé")
	drop, _ := mission.NewGPSPlace(dropPoint, "recipient", "Lomé")
	m, err := mission.NewMission(p.ID(), mission.LegDelivery, pickup, drop, decimal.NewFromInt(1275), now)
	require.NoError(t, err)
	return p, m
}

func TestProofValidator_ValidateDelivery(t *testing.T) {
	v := services.NewProofValidator(500)
	p, m := homeDelivery(t)
	code := p.DeliveryCode().Value()

	// ~111 m per 0.001 degree of latitude.
	inside, _ := kernel.NewGeoPoint(6.1745, 1.2314)
	outside, _ := kernel.NewGeoPoint(6.1779, 1.2314)

	require.ErrorIs(t, v.ValidateDelivery(p, m, code, &inside), errs.ErrPaymentPending)

	require.NoError(t, p.MarkPaid(decimal.NewFromInt(1500), "ref", now))

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	require.ErrorIs(t, v.ValidateDelivery(p, m, wrong, &inside), errs.ErrInvalidCode)

	err := v.ValidateDelivery(p, m, code, &outside)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
	assert.Contains(t, err.Error(), "600 m")

	require.NoError(t, v.ValidateDelivery(p, m, code, &inside))
	require.NoError(t, v.ValidateDelivery(p, m, code, nil), "no coordinates skips the geofence")
}

func TestProofValidator_TransitLegChecksOnlyGeofence(t *testing.T) {
	v := services.NewProofValidator(500)
	p, _ := homeDelivery(t)

	relayPoint, _ := kernel.NewGeoPoint(6.2, 1.2)
	from, _ := mission.NewRelayPlace(kernel.NewUUID(), "A", "Lomé", nil)
	to, _ := mission.NewRelayPlace(kernel.NewUUID(), "B", "Lomé", &relayPoint)
	m, err := mission.NewMission(p.ID(), mission.LegTransit, from, to, decimal.NewFromInt(700), now)
	require.NoError(t, err)

	require.NoError(t, v.ValidateDelivery(p, m, "", &relayPoint))

	far, _ := kernel.NewGeoPoint(6.3, 1.2)
	require.ErrorIs(t, v.ValidateDelivery(p, m, "", &far), errs.ErrOutOfRange)
}
