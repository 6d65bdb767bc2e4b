package parcel_test

import (
	"testing"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActorRole_CanRequest(t *testing.T) {
	tests := []struct {
		role    parcel.ActorRole
		target  parcel.Status
		allowed bool
	}{
		{parcel.RoleClient, parcel.Cancelled, true},
		{parcel.RoleClient, parcel.Delivered, false},
		{parcel.RoleClient, parcel.DroppedAtOriginRelay, false},
		{parcel.RoleRelayAgent, parcel.DroppedAtOriginRelay, true},
		{parcel.RoleRelayAgent, parcel.AvailableAtRelay, true},
		{parcel.RoleRelayAgent, parcel.Delivered, true},
		{parcel.RoleRelayAgent, parcel.DeliveryFailed, false},
		{parcel.RoleCourier, parcel.OutForDelivery, true},
		{parcel.RoleCourier, parcel.DeliveryFailed, true},
		{parcel.RoleCourier, parcel.Cancelled, false},
		{parcel.RoleCourier, parcel.Expired, false},
		{parcel.RoleAdmin, parcel.Expired, true},
		{parcel.RoleSystem, parcel.InTransit, true},
		{parcel.RoleUnknown, parcel.Cancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String()+"->"+tt.target.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.role.CanRequest(tt.target))
		})
	}
}

func TestParseActorRole(t *testing.T) {
	for _, name := range []string{"client", "relay_agent", "courier", "admin", "system"} {
		role, err := parcel.ParseActorRole(name)
		require.NoError(t, err)
		assert.Equal(t, name, role.String())
	}

	_, err := parcel.ParseActorRole("root")
	require.Error(t, err)
}

func TestActor_Validate(t *testing.T) {
	a, err := parcel.NewActor(kernel.NewUUID(), parcel.RoleCourier)
	require.NoError(t, err)
	require.NoError(t, a.Validate())

	require.NoError(t, parcel.SystemActor().Validate())

	_, err = parcel.NewActor(kernel.UUID{}, parcel.RoleCourier)
	require.Error(t, err)

	require.Error(t, parcel.Actor{Role: parcel.RoleClient}.Validate())
}
