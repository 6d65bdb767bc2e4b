package parcel

import (
	"fmt"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/errs"
)

// ActorRole is the kind of party requesting an action.
type ActorRole int

const (
	RoleUnknown ActorRole = iota
	RoleClient
	RoleRelayAgent
	RoleCourier
	RoleAdmin
	RoleSystem
)

var roleNames = map[ActorRole]string{
	RoleClient:     "client",
	RoleRelayAgent: "relay_agent",
	RoleCourier:    "courier",
	RoleAdmin:      "admin",
	RoleSystem:     "system",
}

func ParseActorRole(s string) (ActorRole, error) {
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("actor_role", fmt.Errorf("%q is not a role", s))
}

func (r ActorRole) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

func (r ActorRole) Validate() error {
	if _, ok := roleNames[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("actor_role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// CanRequest reports whether the role may move a parcel into target.
// The transition graph is checked separately.
func (r ActorRole) CanRequest(target Status) bool {
	switch r {
	case RoleAdmin, RoleSystem:
		return true
	case RoleClient:
		return target == Cancelled
	case RoleRelayAgent:
		switch target {
		case DroppedAtOriginRelay, AtDestinationRelay, AvailableAtRelay, RedirectedToRelay,
			OutForDelivery, Delivered, Expired:
			return true
		default:
			return false
		}
	case RoleCourier:
		switch target {
		case InTransit, AtDestinationRelay, OutForDelivery, Delivered, DeliveryFailed,
			RedirectedToRelay, Returned:
			return true
		default:
			return false
		}
	case RoleUnknown:
		return false
	}
	return false
}

// IsAdministrative reports whether the role may use override operations.
func (r ActorRole) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleSystem
}

// Actor identifies who asked for an action. System actions carry no ID.
type Actor struct {
	ID   *kernel.UUID
	Role ActorRole
}

func NewActor(id kernel.UUID, role ActorRole) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{ID: &id, Role: role}, nil
}

func SystemActor() Actor {
	return Actor{Role: RoleSystem}
}

func (a Actor) Validate() error {
	if err := a.Role.Validate(); err != nil {
		return err
	}
	if a.ID == nil && a.Role != RoleSystem {
		return errs.NewValueIsRequiredError("actor_id")
	}
	return nil
}
