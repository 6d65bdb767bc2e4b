package mission_test

import (
	"testing"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

const window = 30 * time.Second

func newMission(t *testing.T) *mission.Mission {
	t.Helper()
	relayPoint, _ := kernel.NewGeoPoint(6.1319, 1.2228)
	home, _ := kernel.NewGeoPoint(6.1725, 1.2314)

	pickup, err := mission.NewRelayPlace(kernel.NewUUID(), "Relay Bè", "Lomé", &relayPoint)
	require.NoError(t, err)
	delivery, err := mission.NewGPSPlace(home, "Recipient", "Lomé")
	require.NoError(t, err)

	m, err := mission.NewMission(kernel.NewUUID(), mission.LegDelivery, pickup, delivery, decimal.NewFromInt(700), now)
	require.NoError(t, err)
	return m
}

func TestNewMission(t *testing.T) {
	m := newMission(t)

	assert.NoError(t, m.Validate())
	assert.Equal(t, mission.Pending, m.Status())
	assert.Nil(t, m.CourierID())
	assert.True(t, m.Earnings().Equal(decimal.NewFromInt(700)))

	_, err := mission.NewMission(kernel.UUID{}, mission.LegUnknown, mission.Place{}, mission.Place{}, decimal.NewFromInt(-1), now)
	require.Error(t, err)
}

func TestMission_Cascade(t *testing.T) {
	a, b := kernel.NewUUID(), kernel.NewUUID()

	t.Run("offers candidates in order then broadcasts", func(t *testing.T) {
		m := newMission(t)

		offeree, err := m.StartCascade([]kernel.UUID{a, b}, window, now)
		require.NoError(t, err)
		assert.True(t, a.IsEqualOptional(offeree))
		assert.True(t, m.IsVisibleTo(a))
		assert.False(t, m.IsVisibleTo(b))

		_, changed := m.AdvanceOffer(window, now.Add(10*time.Second))
		assert.False(t, changed, "offer has not expired yet")

		offeree, changed = m.AdvanceOffer(window, now.Add(window))
		require.True(t, changed)
		assert.True(t, b.IsEqualOptional(offeree))
		assert.False(t, m.IsVisibleTo(a))

		offeree, changed = m.AdvanceOffer(window, now.Add(2*window))
		require.True(t, changed)
		assert.Nil(t, offeree)
		assert.True(t, m.Cascade().Broadcast)
		assert.True(t, m.IsVisibleTo(a))
		assert.True(t, m.IsVisibleTo(b))

		_, changed = m.AdvanceOffer(window, now.Add(time.Hour))
		assert.False(t, changed, "broadcast is final")
	})

	t.Run("no candidates means broadcast", func(t *testing.T) {
		m := newMission(t)
		offeree, err := m.StartCascade(nil, window, now)
		require.NoError(t, err)
		assert.Nil(t, offeree)
		assert.True(t, m.Cascade().Broadcast)
	})

	t.Run("exclusive offer blocks other couriers", func(t *testing.T) {
		m := newMission(t)
		_, _ = m.StartCascade([]kernel.UUID{a, b}, window, now)

		err := m.Accept(b, now)
		require.ErrorIs(t, err, errs.ErrIllegalState)
		assert.Equal(t, mission.Pending, m.Status())

		require.NoError(t, m.Accept(a, now))
		assert.True(t, m.IsAssignedTo(a))
	})
}

func TestMission_AcceptTwice(t *testing.T) {
	m := newMission(t)
	_, _ = m.StartCascade(nil, window, now)

	require.NoError(t, m.Accept(kernel.NewUUID(), now))
	err := m.Accept(kernel.NewUUID(), now)
	require.ErrorIs(t, err, errs.ErrAlreadyAssigned)
}

func TestMission_Lifecycle(t *testing.T) {
	courier := kernel.NewUUID()
	m := newMission(t)
	_, _ = m.StartCascade(nil, window, now)
	require.NoError(t, m.Accept(courier, now))

	require.ErrorIs(t, m.ConfirmPickup(kernel.NewUUID(), now), errs.ErrNotPermitted)
	require.NoError(t, m.ConfirmPickup(courier, now.Add(time.Minute)))
	assert.Equal(t, mission.InProgress, m.Status())
	require.NotNil(t, m.StartedAt())

	require.ErrorIs(t, m.Release(now), errs.ErrIllegalState, "cannot release after pickup")
	require.ErrorIs(t, m.Cancel(now), errs.ErrIllegalState)

	require.NoError(t, m.Complete(now.Add(time.Hour)))
	assert.Equal(t, mission.Completed, m.Status())
	assert.Equal(t, now.Add(time.Hour), *m.CompletedAt())
	assert.False(t, m.Status().IsActive())
}

func TestMission_Release(t *testing.T) {
	m := newMission(t)
	_, _ = m.StartCascade(nil, window, now)
	require.NoError(t, m.Accept(kernel.NewUUID(), now))

	require.NoError(t, m.Release(now))
	assert.Equal(t, mission.Pending, m.Status())
	assert.Nil(t, m.CourierID())
	assert.Nil(t, m.AssignedAt())

	require.ErrorIs(t, m.Release(now), errs.ErrIllegalState)
}

func TestMission_IsStuck(t *testing.T) {
	m := newMission(t)
	_, _ = m.StartCascade(nil, window, now)
	require.NoError(t, m.Accept(kernel.NewUUID(), now))

	assert.False(t, m.IsStuck(now.Add(14*time.Minute), 15*time.Minute))
	assert.True(t, m.IsStuck(now.Add(16*time.Minute), 15*time.Minute))
}

func TestMission_Reassign(t *testing.T) {
	first, second := kernel.NewUUID(), kernel.NewUUID()
	m := newMission(t)
	_, _ = m.StartCascade(nil, window, now)
	require.NoError(t, m.Accept(first, now))
	require.NoError(t, m.ConfirmPickup(first, now))

	require.NoError(t, m.Reassign(second, now.Add(time.Minute)))
	assert.Equal(t, mission.Assigned, m.Status())
	assert.True(t, m.IsAssignedTo(second))
	assert.Nil(t, m.StartedAt())

	require.NoError(t, m.Cancel(now))
	require.ErrorIs(t, m.Reassign(first, now), errs.ErrIllegalState)
}

func TestMission_RecordLocation(t *testing.T) {
	courier := kernel.NewUUID()
	m := newMission(t)
	_, _ = m.StartCascade(nil, window, now)

	p, _ := kernel.NewGeoPoint(6.15, 1.22)
	require.ErrorIs(t, m.RecordLocation(p, now, 3), errs.ErrIllegalState)

	require.NoError(t, m.Accept(courier, now))
	for i := range 5 {
		point, _ := kernel.NewGeoPoint(6.15+float64(i)*0.001, 1.22)
		require.NoError(t, m.RecordLocation(point, now.Add(time.Duration(i)*time.Second), 3))
	}

	trail := m.Trail()
	require.Len(t, trail, 3)
	assert.Equal(t, now.Add(2*time.Second), trail[0].At, "oldest points are dropped")
	assert.Equal(t, now.Add(4*time.Second), *m.LastLocationAt())
}

func TestMission_EtaAndApproach(t *testing.T) {
	courier := kernel.NewUUID()
	m := newMission(t)
	_, _ = m.StartCascade(nil, window, now)
	require.NoError(t, m.Accept(courier, now))

	assert.True(t, m.NeedsEtaRefresh(now, 5*time.Minute))
	m.SetEta(420, now)
	assert.False(t, m.NeedsEtaRefresh(now.Add(4*time.Minute), 5*time.Minute))
	assert.True(t, m.NeedsEtaRefresh(now.Add(5*time.Minute), 5*time.Minute))

	assert.False(t, m.MarkApproaching(100, 500), "only in-progress missions approach")
	require.NoError(t, m.ConfirmPickup(courier, now))

	near, _ := kernel.NewGeoPoint(6.1735, 1.2314)
	d, ok := m.DistanceToDeliveryMeters(near)
	require.True(t, ok)
	assert.InDelta(t, 111, d, 2)

	assert.True(t, m.MarkApproaching(d, 500))
	assert.False(t, m.MarkApproaching(d, 500), "fires once")
}

func TestRestoreMission(t *testing.T) {
	original := newMission(t)
	courier := kernel.NewUUID()
	assignedAt := now

	restored, err := mission.RestoreMission(mission.Snapshot{
		ID:         original.ID(),
		ParcelID:   original.ParcelID(),
		Leg:        mission.LegTransit,
		Pickup:     original.Pickup(),
		Delivery:   original.Delivery(),
		CourierID:  &courier,
		Status:     mission.Assigned,
		Earnings:   original.Earnings(),
		AssignedAt: &assignedAt,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    3,
	})
	require.NoError(t, err)
	assert.Equal(t, mission.LegTransit, restored.Leg())
	assert.Equal(t, int64(3), restored.Version())
	assert.True(t, restored.IsAssignedTo(courier))

	_, err = mission.RestoreMission(mission.Snapshot{
		ID:       original.ID(),
		ParcelID: original.ParcelID(),
		Leg:      mission.LegDelivery,
		Pickup:   original.Pickup(),
		Delivery: original.Delivery(),
		Status:   mission.InProgress,
	})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
