package courier

import (
	"errors"
	"strings"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPhoneIsRequired is returned when attempting to create a courier without a phone.
	ErrPhoneIsRequired = errs.NewValueIsRequiredError("phone")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier")
)

// Courier represents a delivery courier in the system.
// It is an aggregate root that tracks identity, availability and the most
// recent position reported by the courier's device.
//
// Key responsibilities:
//   - Managing courier identity (ID, name, phone)
//   - Recording availability toggles from the courier app
//   - Keeping the last known position used to rank offer candidates
//
// Business rules:
//   - Courier must have a valid UUID, non-empty name and non-empty phone
//   - A position report older than the stored one does not overwrite it
//   - A courier without any position is still eligible, ranked after located ones
//
// Example usage:
//
//	c, err := NewCourier(kernel.NewUUID(), "Afi Mensah", "+22890000000")
//	if err != nil {
//	    // Handle construction error
//	}
//	point, _ := kernel.NewGeoPoint(6.13, 1.22)
//	c.UpdatePosition(point, time.Now().UTC())
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the human-readable name of the courier
	name string
	// phone is where SMS notifications are sent
	phone string
	// available is toggled by the courier app
	available bool
	// position is the last reported location, nil until the first report
	position *kernel.GeoPoint
	// positionAt is when position was reported
	positionAt *time.Time
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier creates a new available Courier with no known position.
//
// Parameters:
//   - id: Unique identifier for the courier (must be valid UUID)
//   - name: Human-readable name (must be non-empty)
//   - phone: Contact phone number (must be non-empty)
//
// Returns:
//   - *Courier: A fully initialized courier
//   - error: Validation error if any parameter is invalid (aggregated errors for multiple issues)
func NewCourier(id kernel.UUID, name, phone string) (*Courier, error) {
	courier := &Courier{
		available: true,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setPhone(phone),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage,
// including its availability and last reported position.
func RestoreCourier(
	id kernel.UUID,
	name, phone string,
	available bool,
	position *kernel.GeoPoint,
	positionAt *time.Time,
) (*Courier, error) {
	courier := &Courier{
		available:  available,
		position:   position,
		positionAt: positionAt,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setPhone(phone),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

// IsEqual compares two couriers by identity.
func (c *Courier) IsEqual(other *Courier) bool {
	if c == nil || other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

// Validate checks that the courier was created through a constructor.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) Phone() string {
	return c.phone
}

func (c *Courier) IsAvailable() bool {
	return c.available
}

// Position returns the last reported location, or nil if none was reported.
func (c *Courier) Position() *kernel.GeoPoint {
	return c.position
}

func (c *Courier) PositionAt() *time.Time {
	return c.positionAt
}

// SetAvailable toggles whether the courier receives new offers.
func (c *Courier) SetAvailable(available bool) {
	c.available = available
}

// UpdatePosition stores a position report. It returns false when the report
// is older than the stored one and was ignored.
func (c *Courier) UpdatePosition(point kernel.GeoPoint, at time.Time) bool {
	if c.positionAt != nil && at.Before(*c.positionAt) {
		return false
	}
	c.position = &point
	c.positionAt = &at
	return true
}

// DistanceToMeters returns the straight-line distance from the courier's last
// position to target. ok is false when the courier has no position.
func (c *Courier) DistanceToMeters(target kernel.GeoPoint) (distance float64, ok bool) {
	if c.position == nil {
		return 0, false
	}
	d, err := c.position.DistanceMeters(target)
	if err != nil {
		return 0, false
	}
	return d, true
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ErrPhoneIsRequired
	}
	c.phone = phone
	return nil
}
