package mission

import (
	"time"

	"pickupoint/internal/core/domain/model/kernel"
)

// DefaultTrailCapacity bounds the number of stored trail points.
const DefaultTrailCapacity = 300

// TrailPoint is one recorded courier position.
type TrailPoint struct {
	Point kernel.GeoPoint
	At    time.Time
}

// appendBounded appends p and drops the oldest points beyond capacity.
func appendBounded(trail []TrailPoint, p TrailPoint, capacity int) []TrailPoint {
	if capacity <= 0 {
		capacity = DefaultTrailCapacity
	}
	trail = append(trail, p)
	if over := len(trail) - capacity; over > 0 {
		trail = append([]TrailPoint(nil), trail[over:]...)
	}
	return trail
}
