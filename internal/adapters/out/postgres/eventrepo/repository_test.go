package eventrepo_test

import (
	"testing"
	"time"

	"pickupoint/internal/adapters/out/postgres/dbtest"
	"pickupoint/internal/adapters/out/postgres/eventrepo"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func appendWalk(t *testing.T, log *eventrepo.GormEventLog, parcelID kernel.UUID) []parcel.Status {
	t.Helper()
	walk := []parcel.Status{
		parcel.Created,
		parcel.DroppedAtOriginRelay,
		parcel.InTransit,
		parcel.AtDestinationRelay,
		parcel.AvailableAtRelay,
		parcel.Delivered,
	}
	created, err := parcel.NewEvent(parcelID, parcel.EventParcelCreated, parcel.SystemActor(), "", nil, now)
	require.NoError(t, err)
	require.NoError(t, log.Append(t.Context(), created))

	for i := 1; i < len(walk); i++ {
		// the last two events share a timestamp, seq keeps them ordered
		at := now.Add(time.Duration(min(i, len(walk)-2)) * time.Minute)
		e, err := parcel.NewStatusChangedEvent(parcelID, walk[i-1], walk[i], parcel.SystemActor(), "",
			map[string]any{"step": i}, at)
		require.NoError(t, err)
		require.NoError(t, log.Append(t.Context(), e))
	}
	return walk
}

func TestGormEventLog_TimelineIsAValidWalk(t *testing.T) {
	db := dbtest.NewSQLite(t)
	log := eventrepo.NewGormEventLog(db).WithPageSize(2)
	parcelID := kernel.NewUUID()
	walk := appendWalk(t, log, parcelID)

	// noise from another parcel
	other, _ := parcel.NewEvent(kernel.NewUUID(), parcel.EventParcelCreated, parcel.SystemActor(), "", nil, now)
	require.NoError(t, log.Append(t.Context(), other))

	var events []*parcel.Event
	for e, err := range log.Timeline(t.Context(), parcelID) {
		require.NoError(t, err)
		events = append(events, e)
	}

	require.Len(t, events, len(walk))
	assert.Equal(t, parcel.EventParcelCreated, events[0].Kind())
	current := parcel.Created
	for _, e := range events[1:] {
		require.NotNil(t, e.From())
		assert.Equal(t, current, *e.From())
		assert.True(t, e.From().CanTransitionTo(*e.To()), "%s -> %s", e.From(), e.To())
		current = *e.To()
	}
	assert.Equal(t, parcel.Delivered, current)
	assert.InDelta(t, 1, events[1].Metadata()["step"], 0)
}

func TestGormEventLog_TimelineCanStopAndRestart(t *testing.T) {
	db := dbtest.NewSQLite(t)
	log := eventrepo.NewGormEventLog(db).WithPageSize(2)
	parcelID := kernel.NewUUID()
	appendWalk(t, log, parcelID)

	seen := 0
	for _, err := range log.Timeline(t.Context(), parcelID) {
		require.NoError(t, err)
		seen++
		if seen == 3 {
			break
		}
	}
	assert.Equal(t, 3, seen)

	total := 0
	for _, err := range log.Timeline(t.Context(), parcelID) {
		require.NoError(t, err)
		total++
	}
	assert.Equal(t, 6, total)
}

func TestGormEventLog_EmptyTimeline(t *testing.T) {
	log := eventrepo.NewGormEventLog(dbtest.NewSQLite(t))
	for range log.Timeline(t.Context(), kernel.NewUUID()) {
		t.Fatal("no events expected")
	}
}
