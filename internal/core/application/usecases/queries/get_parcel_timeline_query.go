package queries

import (
	"errors"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/pkg/guard"
)

var ErrGetParcelTimelineQueryIsNotConstructed = errors.New(
	"GetParcelTimelineQuery must be created via NewGetParcelTimelineQuery constructor",
)

// GetParcelTimelineQuery reads a parcel's audit events, oldest first.
type GetParcelTimelineQuery struct {
	parcelID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetParcelTimelineQuery(parcelID kernel.UUID) (GetParcelTimelineQuery, error) {
	if err := parcelID.Validate(); err != nil {
		return GetParcelTimelineQuery{}, err
	}
	return GetParcelTimelineQuery{parcelID: parcelID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetParcelTimelineQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelTimelineQueryIsNotConstructed)
}

// TimelineEntry is one audit event. From and To are set on status changes only.
type TimelineEntry struct {
	ID        kernel.UUID
	Kind      parcel.EventKind
	From      *parcel.Status
	To        *parcel.Status
	ActorID   *kernel.UUID
	ActorRole parcel.ActorRole
	Note      string
	Metadata  map[string]any
	CreatedAt time.Time
}
