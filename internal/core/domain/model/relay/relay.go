// Package relay models the partner shops where parcels are dropped off and
// collected.
package relay

import (
	"errors"
	"strings"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"
)

var ErrRelayIsNotConstructed = errors.New("Relay must be created via NewRelay or RestoreRelay")

// Relay is a relay point. OwnerID receives the relay's revenue share.
type Relay struct {
	id      kernel.UUID
	name    string
	ownerID kernel.UUID
	city    string
	point   *kernel.GeoPoint
	active  bool
	guard   guard.ConstructorGuard
}

func NewRelay(name string, ownerID kernel.UUID, city string, point *kernel.GeoPoint) (*Relay, error) {
	return RestoreRelay(kernel.NewUUID(), name, ownerID, city, point, true)
}

func RestoreRelay(
	id kernel.UUID,
	name string,
	ownerID kernel.UUID,
	city string,
	point *kernel.GeoPoint,
	active bool,
) (*Relay, error) {
	r := &Relay{
		id:      id,
		name:    strings.TrimSpace(name),
		ownerID: ownerID,
		city:    strings.TrimSpace(city),
		point:   point,
		active:  active,
		guard:   guard.NewConstructorGuard(),
	}

	var nameErr error
	if r.name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if err := errors.Join(
		id.Validate(),
		nameErr,
		errWrapRequired("owner_id", ownerID.Validate()),
	); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Relay) Validate() error {
	if r == nil {
		return ErrRelayIsNotConstructed
	}
	return r.guard.Validate(ErrRelayIsNotConstructed)
}

func (r *Relay) ID() kernel.UUID         { return r.id }
func (r *Relay) Name() string            { return r.name }
func (r *Relay) OwnerID() kernel.UUID    { return r.ownerID }
func (r *Relay) City() string            { return r.city }
func (r *Relay) Point() *kernel.GeoPoint { return r.point }
func (r *Relay) IsActive() bool          { return r.active }

func (r *Relay) Deactivate() { r.active = false }
func (r *Relay) Activate()   { r.active = true }

func errWrapRequired(param string, err error) error {
	if err == nil {
		return nil
	}
	return errs.NewValueIsRequiredErrorWithCause(param, err)
}
