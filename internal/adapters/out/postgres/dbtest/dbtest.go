// Package dbtest opens throwaway databases for repository and handler tests:
// an in-memory SQLite schema built by AutoMigrate, or a PostgreSQL container
// migrated with the embedded SQL files.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pickupoint/internal/adapters/out/postgres/courierrepo"
	"pickupoint/internal/adapters/out/postgres/eventrepo"
	"pickupoint/internal/adapters/out/postgres/migrations"
	"pickupoint/internal/adapters/out/postgres/missionrepo"
	"pickupoint/internal/adapters/out/postgres/parcelrepo"
	"pickupoint/internal/adapters/out/postgres/pricingrepo"
	"pickupoint/internal/adapters/out/postgres/relayrepo"
	"pickupoint/internal/adapters/out/postgres/walletrepo"
	"pickupoint/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every persisted DTO.
func Models() []any {
	return []any{
		&parcelrepo.ParcelDTO{},
		&eventrepo.EventDTO{},
		&missionrepo.MissionDTO{},
		&courierrepo.CourierDTO{},
		&relayrepo.RelayDTO{},
		&walletrepo.WalletDTO{},
		&walletrepo.TransactionDTO{},
		&walletrepo.SettlementDTO{},
		&pricingrepo.RuleDTO{},
		&pricingrepo.ZoneDTO{},
	}
}

// activeMissionIndexes mirror the partial unique indexes of the SQL schema.
var activeMissionIndexes = []string{
	`CREATE UNIQUE INDEX uq_delivery_missions_active_parcel ON delivery_missions (parcel_id)
		WHERE status IN ('pending', 'assigned', 'in_progress')`,
	`CREATE UNIQUE INDEX uq_delivery_missions_active_courier ON delivery_missions (courier_id)
		WHERE courier_id IS NOT NULL AND status IN ('assigned', 'in_progress')`,
}

// NewSQLite returns a private in-memory database. The pool holds a single
// connection, so concurrent units of work run one after the other.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", kernel.NewUUID().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...))
	for _, stmt := range activeMissionIndexes {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// Postgres is a running container with the schema applied.
type Postgres struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
}

// StartPostgres starts postgres:15-alpine and applies the embedded migrations.
func StartPostgres(ctx context.Context) (*Postgres, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, err
	}

	sqlDB, err := migrations.Open(dsn)
	if err != nil {
		return nil, err
	}
	defer sqlDB.Close()
	if _, err := migrations.Up(sqlDB); err != nil {
		return nil, err
	}

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return &Postgres{Container: container, DB: db}, nil
}

// Truncate empties every table between tests.
func (p *Postgres) Truncate() error {
	return p.DB.Exec(`TRUNCATE TABLE settlements, wallet_transactions, wallets,
		pricing_rules, pricing_zones, delivery_missions, parcel_events, parcels,
		couriers, relays RESTART IDENTITY CASCADE`).Error
}

func (p *Postgres) Terminate(ctx context.Context) error {
	return p.Container.Terminate(ctx)
}
