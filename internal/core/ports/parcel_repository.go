package ports

import (
	"context"
	"iter"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
)

// ParcelRepository defines the persistence contract for parcel aggregates.
type ParcelRepository interface {
	Add(ctx context.Context, p *parcel.Parcel) error

	// Update writes the parcel only if the stored version still matches the
	// one it was loaded with, then bumps the version. A lost race returns
	// errs.ErrVersionIsInvalid.
	Update(ctx context.Context, p *parcel.Parcel) error

	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	GetByTrackingCode(ctx context.Context, code string) (*parcel.Parcel, error)
}

// EventLog is the append-only audit trail of parcels. There is no way to
// change or remove an event.
type EventLog interface {
	// Append writes the event inside the caller's unit of work.
	Append(ctx context.Context, e *parcel.Event) error

	// Timeline yields the parcel's events oldest first. Iteration reads the
	// log page by page and may be restarted.
	Timeline(ctx context.Context, parcelID kernel.UUID) iter.Seq2[*parcel.Event, error]
}
