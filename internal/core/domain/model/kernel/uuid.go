package kernel

import (
	"fmt"

	"pickupoint/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating the nil UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("id")

// UUID identifies parcels, missions, couriers, relays, wallets and events.
// It wraps github.com/google/uuid and treats the nil UUID as "not set".
type UUID struct {
	id uuid.UUID
}

// NewUUID returns a random (version 4) identifier.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the canonical form as well as the braced, urn and
// hyphen-less forms accepted by uuid.Parse.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("invalid UUID format: %w", err))
	}
	return UUID{id: id}, nil
}

// UUIDFromBytes builds a UUID from its 16 raw bytes. Persistence adapters use it
// when mapping rows back to aggregates.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("invalid UUID format: %w", err))
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}
	return newID, nil
}

// UUIDFromGoogle wraps an already parsed uuid.UUID.
func UUIDFromGoogle(id uuid.UUID) (UUID, error) {
	u := UUID{id: id}
	if err := u.Validate(); err != nil {
		return UUID{}, err
	}
	return u, nil
}

// OptionalUUIDFromGoogle maps a nullable column to an optional identifier.
func OptionalUUIDFromGoogle(id *uuid.UUID) (*UUID, error) {
	if id == nil {
		return nil, nil
	}
	u, err := UUIDFromGoogle(*id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// OptionalToGoogle is the inverse of OptionalUUIDFromGoogle.
func OptionalToGoogle(id *UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.id
	return &raw
}

func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying uuid.UUID for adapters.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// IsEqualOptional reports whether an optional identifier is set and equals u.
func (u UUID) IsEqualOptional(other *UUID) bool {
	return other != nil && u.id == other.id
}

func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
