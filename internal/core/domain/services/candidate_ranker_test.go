package services_test

import (
	"testing"
	"time"

	"pickupoint/internal/core/domain/model/courier"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/services"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCourierAt(t *testing.T, lat, lng *float64) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), gofakeit.Name(), gofakeit.Phone())
	require.NoError(t, err)
	if lat != nil {
		p, err := kernel.NewGeoPoint(*lat, *lng)
		require.NoError(t, err)
		c.UpdatePosition(p, time.Now().UTC())
	}
	return c
}

func coord(v float64) *float64 { return &v }

func TestCandidateRanker_Rank(t *testing.T) {
	pickup, _ := kernel.NewGeoPoint(6.13, 1.22)
	far := newCourierAt(t, coord(6.20), coord(1.22))
	near := newCourierAt(t, coord(6.131), coord(1.22))
	mid := newCourierAt(t, coord(6.15), coord(1.22))
	unknown := newCourierAt(t, nil, nil)
	busy := newCourierAt(t, coord(6.13), coord(1.22))
	off := newCourierAt(t, coord(6.13), coord(1.22))
	off.SetAvailable(false)

	couriers := []*courier.Courier{unknown, far, busy, near, off, mid}
	ranker := services.NewCandidateRanker()

	t.Run("nearest first, unlocated last, busy and unavailable excluded", func(t *testing.T) {
		got := ranker.Rank(&pickup, couriers, map[kernel.UUID]bool{busy.ID(): true})
		assert.Equal(t, []kernel.UUID{near.ID(), mid.ID(), far.ID(), unknown.ID()}, got)
	})

	t.Run("pickup without coordinates keeps input order", func(t *testing.T) {
		got := ranker.Rank(nil, couriers, nil)
		assert.Equal(t, []kernel.UUID{unknown.ID(), far.ID(), busy.ID(), near.ID(), mid.ID()}, got)
	})

	t.Run("no couriers", func(t *testing.T) {
		assert.Empty(t, ranker.Rank(&pickup, nil, nil))
	})
}
