// Package ports defines the contracts between the core and its adapters:
// repositories bound to a unit of work, and the outbound services the core
// calls (notifications, route time, offer scheduling).
package ports

import (
	"context"

	"pickupoint/internal/core/domain/model/courier"
	"pickupoint/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, courier *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// ListAvailable retrieves every courier flagged available, regardless of
	// whether they currently hold a mission.
	//
	// Example:
	//   couriers, err := repo.ListAvailable(ctx)
	//   busy, err := missions.CourierIDsHoldingMissions(ctx)
	//   ids := ranker.Rank(pickup, couriers, busy)
	ListAvailable(ctx context.Context) ([]*courier.Courier, error)
}
