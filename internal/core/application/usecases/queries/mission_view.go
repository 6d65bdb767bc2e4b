package queries

import (
	"cmp"
	"database/sql"
	"slices"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/mission"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceView is a mission stop as shown to couriers.
type PlaceView struct {
	Label string
	City  string
	Point *kernel.GeoPoint
}

// MissionSummary is a row of the courier mission lists.
type MissionSummary struct {
	ID             kernel.UUID
	ParcelID       kernel.UUID
	Leg            string
	Status         mission.Status
	Pickup         PlaceView
	Delivery       PlaceView
	Earnings       decimal.Decimal
	Broadcast      bool
	OfferExpiresAt *time.Time
	CreatedAt      time.Time

	// DistanceKm is from the caller's position to the pickup, when both are known.
	DistanceKm *float64
}

const missionSummaryColumns = `
	id,
	parcel_id,
	leg,
	status,
	pickup_label,
	pickup_city,
	pickup_lat,
	pickup_lng,
	delivery_label,
	delivery_city,
	delivery_lat,
	delivery_lng,
	earnings,
	broadcast,
	offer_expires_at,
	created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMissionSummary(rows rowScanner) (MissionSummary, error) {
	var (
		summary                  MissionSummary
		id, parcelID             uuid.UUID
		status                   string
		pickupLat, pickupLng     sql.NullFloat64
		deliveryLat, deliveryLng sql.NullFloat64
		offerExpiresAt           sql.NullTime
	)
	err := rows.Scan(
		&id,
		&parcelID,
		&summary.Leg,
		&status,
		&summary.Pickup.Label,
		&summary.Pickup.City,
		&pickupLat,
		&pickupLng,
		&summary.Delivery.Label,
		&summary.Delivery.City,
		&deliveryLat,
		&deliveryLng,
		&summary.Earnings,
		&summary.Broadcast,
		&offerExpiresAt,
		&summary.CreatedAt,
	)
	if err != nil {
		return MissionSummary{}, err
	}

	if summary.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return MissionSummary{}, err
	}
	if summary.ParcelID, err = kernel.UUIDFromBytes(parcelID[:]); err != nil {
		return MissionSummary{}, err
	}
	if summary.Status, err = mission.ParseStatus(status); err != nil {
		return MissionSummary{}, err
	}
	if summary.Pickup.Point, err = nullPoint(pickupLat, pickupLng); err != nil {
		return MissionSummary{}, err
	}
	if summary.Delivery.Point, err = nullPoint(deliveryLat, deliveryLng); err != nil {
		return MissionSummary{}, err
	}
	if offerExpiresAt.Valid {
		at := offerExpiresAt.Time.UTC()
		summary.OfferExpiresAt = &at
	}
	summary.CreatedAt = summary.CreatedAt.UTC()
	return summary, nil
}

func nullPoint(lat, lng sql.NullFloat64) (*kernel.GeoPoint, error) {
	if !lat.Valid || !lng.Valid {
		return nil, nil
	}
	p, err := kernel.NewGeoPoint(lat.Float64, lng.Float64)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// sortByPickupDistance fills DistanceKm from position and orders nearest
// first. Missions whose pickup has no coordinates keep their order at the end.
func sortByPickupDistance(missions []MissionSummary, position kernel.GeoPoint) {
	for i := range missions {
		if p := missions[i].Pickup.Point; p != nil {
			if d, err := position.DistanceKm(*p); err == nil {
				missions[i].DistanceKm = &d
			}
		}
	}
	slices.SortStableFunc(missions, func(a, b MissionSummary) int {
		switch {
		case a.DistanceKm == nil && b.DistanceKm == nil:
			return 0
		case a.DistanceKm == nil:
			return 1
		case b.DistanceKm == nil:
			return -1
		}
		return cmp.Compare(*a.DistanceKm, *b.DistanceKm)
	})
}
