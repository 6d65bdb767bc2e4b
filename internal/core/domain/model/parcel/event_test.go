package parcel_test

import (
	"testing"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatusChangedEvent(t *testing.T) {
	parcelID := kernel.NewUUID()
	actor, _ := parcel.NewActor(kernel.NewUUID(), parcel.RoleRelayAgent)
	meta := map[string]any{"relay": "R-12"}

	e, err := parcel.NewStatusChangedEvent(parcelID, parcel.Created, parcel.DroppedAtOriginRelay,
		actor, "dropped", meta, now)
	require.NoError(t, err)

	assert.Equal(t, parcel.EventStatusChanged, e.Kind())
	assert.Equal(t, parcel.Created, *e.From())
	assert.Equal(t, parcel.DroppedAtOriginRelay, *e.To())
	assert.Equal(t, "dropped", e.Note())
	assert.Equal(t, now, e.CreatedAt())

	meta["relay"] = "changed"
	assert.Equal(t, "R-12", e.Metadata()["relay"])

	copied := e.Metadata()
	copied["relay"] = "mutated"
	assert.Equal(t, "R-12", e.Metadata()["relay"])
}

func TestNewEvent(t *testing.T) {
	t.Run("non transition event has no statuses", func(t *testing.T) {
		e, err := parcel.NewEvent(kernel.NewUUID(), parcel.EventPaymentReceived, parcel.SystemActor(), "", nil, now)
		require.NoError(t, err)
		assert.Nil(t, e.From())
		assert.Nil(t, e.To())
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := parcel.NewEvent(kernel.NewUUID(), parcel.EventKind("DELETED"), parcel.SystemActor(), "", nil, now)
		require.Error(t, err)
	})

	t.Run("missing parcel", func(t *testing.T) {
		_, err := parcel.NewEvent(kernel.UUID{}, parcel.EventParcelCreated, parcel.SystemActor(), "", nil, now)
		require.Error(t, err)
	})
}
