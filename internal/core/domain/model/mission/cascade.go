package mission

import (
	"time"

	"pickupoint/internal/core/domain/model/kernel"
)

// Cascade is the offer state of a pending mission. Candidates are offered the
// mission one at a time, each for a fixed window; once the list is exhausted
// (or was empty to begin with) the mission is broadcast to every courier.
type Cascade struct {
	Candidates     []kernel.UUID
	Index          int
	OfferExpiresAt *time.Time
	Broadcast      bool
}

// Offeree returns the courier currently holding the exclusive offer, if any.
func (c Cascade) Offeree() *kernel.UUID {
	if c.Broadcast || c.Index < 0 || c.Index >= len(c.Candidates) {
		return nil
	}
	id := c.Candidates[c.Index]
	return &id
}

// IsExpired reports whether the exclusive offer window has passed.
func (c Cascade) IsExpired(now time.Time) bool {
	return !c.Broadcast && c.OfferExpiresAt != nil && !now.Before(*c.OfferExpiresAt)
}

func (c Cascade) clone() Cascade {
	out := c
	out.Candidates = append([]kernel.UUID(nil), c.Candidates...)
	if c.OfferExpiresAt != nil {
		at := *c.OfferExpiresAt
		out.OfferExpiresAt = &at
	}
	return out
}
