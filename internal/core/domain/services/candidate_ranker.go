package services

import (
	"cmp"
	"slices"

	"pickupoint/internal/core/domain/model/courier"
	"pickupoint/internal/core/domain/model/kernel"
)

// CandidateRanker is a domain service that decides in which order couriers are
// offered a mission.
//
// Key responsibilities:
//   - Filtering out unavailable and busy couriers
//   - Ranking located couriers by straight-line distance to the pickup
//
// Business rules:
//   - A courier holding a non-terminal mission is never a candidate
//   - Couriers without a known position, or every courier when the pickup has
//     no coordinates, are appended after the ranked ones in input order
//   - Ties keep input order
//
// Example usage:
//
//	ranker := NewCandidateRanker()
//	ids := ranker.Rank(mission.Pickup().Point, couriers, busy)
//	offeree, _ := mission.StartCascade(ids, policy.OfferWindow, now)
type CandidateRanker struct{}

// NewCandidateRanker creates a new CandidateRanker instance.
func NewCandidateRanker() CandidateRanker {
	return CandidateRanker{}
}

// Rank returns the candidate courier IDs, nearest first.
//
// Parameters:
//   - pickup: coordinates of the pickup place, nil when unknown
//   - couriers: couriers to consider
//   - busy: IDs of couriers already holding a non-terminal mission
func (CandidateRanker) Rank(pickup *kernel.GeoPoint, couriers []*courier.Courier, busy map[kernel.UUID]bool) []kernel.UUID {
	type ranked struct {
		id       kernel.UUID
		distance float64
	}

	var (
		located   []ranked
		unlocated []kernel.UUID
	)
	for _, c := range couriers {
		if c.Validate() != nil || !c.IsAvailable() || busy[c.ID()] {
			continue
		}
		if pickup == nil {
			unlocated = append(unlocated, c.ID())
			continue
		}
		d, ok := c.DistanceToMeters(*pickup)
		if !ok {
			unlocated = append(unlocated, c.ID())
			continue
		}
		located = append(located, ranked{id: c.ID(), distance: d})
	}

	slices.SortStableFunc(located, func(a, b ranked) int {
		return cmp.Compare(a.distance, b.distance)
	})

	out := make([]kernel.UUID, 0, len(located)+len(unlocated))
	for _, r := range located {
		out = append(out, r.id)
	}
	return append(out, unlocated...)
}
