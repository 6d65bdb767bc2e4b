package ports

import (
	"context"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/mission"
)

// MissionRepository defines the persistence contract for mission aggregates.
type MissionRepository interface {
	Add(ctx context.Context, m *mission.Mission) error

	// Update is conditional on the loaded version, like ParcelRepository.Update.
	Update(ctx context.Context, m *mission.Mission) error

	Get(ctx context.Context, id kernel.UUID) (*mission.Mission, error)

	// GetActiveByParcel returns the parcel's non-terminal mission, or
	// errs.ErrObjectNotFound.
	GetActiveByParcel(ctx context.Context, parcelID kernel.UUID) (*mission.Mission, error)

	// GetActiveByCourier returns the mission the courier holds (assigned or
	// in progress), or errs.ErrObjectNotFound.
	GetActiveByCourier(ctx context.Context, courierID kernel.UUID) (*mission.Mission, error)

	// CourierIDsHoldingMissions returns the set of couriers bound to an
	// assigned or in-progress mission.
	CourierIDsHoldingMissions(ctx context.Context) (map[kernel.UUID]bool, error)

	// ListAssignedBefore returns assigned, never started missions whose
	// assignment is older than cutoff.
	ListAssignedBefore(ctx context.Context, cutoff time.Time) ([]*mission.Mission, error)

	// ListOverdueOffers returns pending missions whose exclusive offer
	// expired before cutoff.
	ListOverdueOffers(ctx context.Context, cutoff time.Time) ([]*mission.Mission, error)
}
