package queries_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	postgres_adapter "pickupoint/internal/adapters/out/postgres"
	"pickupoint/internal/adapters/out/postgres/dbtest"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/relay"
	"pickupoint/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Tuesday 10:00 UTC: no time-of-day factor applies.
var start = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

type store struct {
	t       *testing.T
	db      *gorm.DB
	factory *postgres_adapter.GormUnitOfWorkFactory
}

func newStore(t *testing.T) *store {
	t.Helper()
	db := dbtest.NewSQLite(t)
	return &store{t: t, db: db, factory: postgres_adapter.NewGormUnitOfWorkFactory(db)}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func point(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func (s *store) tx(fn func(uow ports.UnitOfWork)) {
	s.t.Helper()
	ctx := context.Background()
	uow := s.factory.Create()
	require.NoError(s.t, uow.Begin(ctx))
	fn(uow)
	require.NoError(s.t, uow.Commit(ctx))
}

func (s *store) relay(name string, at *kernel.GeoPoint) *relay.Relay {
	s.t.Helper()
	r, err := relay.NewRelay(name, kernel.NewUUID(), "Lomé", at)
	require.NoError(s.t, err)
	s.tx(func(uow ports.UnitOfWork) {
		require.NoError(s.t, uow.RelayRepository().Add(context.Background(), r))
	})
	return r
}

func (s *store) parcel(origin, destination *relay.Relay) *parcel.Parcel {
	s.t.Helper()
	o, d := origin.ID(), destination.ID()
	p, err := parcel.NewParcel(parcel.Spec{
		SenderID:           kernel.NewUUID(),
		RecipientName:      "Ama Mensah",
		RecipientPhone:     "+228 90 11 22 33",
		Mode:               parcel.RelayToRelay,
		OriginRelayID:      &o,
		DestinationRelayID: &d,
		WeightKg:           1.5,
	}, decimal.NewFromInt(900), start)
	require.NoError(s.t, err)

	created, err := parcel.NewEvent(p.ID(), parcel.EventParcelCreated, parcel.SystemActor(), "", nil, start)
	require.NoError(s.t, err)
	s.tx(func(uow ports.UnitOfWork) {
		require.NoError(s.t, uow.ParcelRepository().Add(context.Background(), p))
		require.NoError(s.t, uow.EventLog().Append(context.Background(), created))
	})
	return p
}

// mission stores a pending transit mission between two relays, offered to
// candidates in order, or broadcast when there are none.
func (s *store) mission(origin, destination *relay.Relay, createdAt time.Time, candidates ...kernel.UUID) *mission.Mission {
	s.t.Helper()
	p := s.parcel(origin, destination)

	pickup, err := mission.NewRelayPlace(origin.ID(), origin.Name(), origin.City(), origin.Point())
	require.NoError(s.t, err)
	delivery, err := mission.NewRelayPlace(destination.ID(), destination.Name(), destination.City(), destination.Point())
	require.NoError(s.t, err)

	m, err := mission.NewMission(p.ID(), mission.LegTransit, pickup, delivery, decimal.NewFromInt(630), createdAt)
	require.NoError(s.t, err)
	_, err = m.StartCascade(candidates, 30*time.Second, createdAt)
	require.NoError(s.t, err)

	s.tx(func(uow ports.UnitOfWork) {
		require.NoError(s.t, uow.MissionRepository().Add(context.Background(), m))
	})
	return m
}
