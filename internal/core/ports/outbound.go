package ports

import (
	"context"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
)

// Notifier delivers push and SMS messages. Implementations enqueue and
// return; delivery failures are never reported back to the caller's flow.
type Notifier interface {
	Notify(ctx context.Context, userID kernel.UUID, title, body, ref string) error
	SMS(ctx context.Context, phone, body string) error
}

// RouteTimeProvider estimates driving time between two points.
type RouteTimeProvider interface {
	DurationSeconds(ctx context.Context, from, to kernel.GeoPoint) (int, error)
}

// OfferQueue schedules the expiry of exclusive mission offers.
type OfferQueue interface {
	// Schedule (re)arms the expiry of missionID's current offer at at.
	Schedule(ctx context.Context, missionID kernel.UUID, at time.Time) error

	// Due removes and returns up to limit missions whose offer expired at or
	// before now. An entry is handed out to one caller only.
	Due(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error)

	// Cancel drops missionID's pending expiry, if any.
	Cancel(ctx context.Context, missionID kernel.UUID) error
}
