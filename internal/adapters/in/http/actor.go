package http

import (
	"errors"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Identity is resolved upstream by the gateway and passed in these headers.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

var errUnauthenticated = errors.New(HeaderActorID + " and " + HeaderActorRole + " headers are required")

// actorFrom reads the caller from the request headers. The system role is
// reserved for background jobs and refused here.
func actorFrom(ctx echo.Context) (parcel.Actor, error) {
	rawID := ctx.Request().Header.Get(HeaderActorID)
	rawRole := ctx.Request().Header.Get(HeaderActorRole)
	if rawID == "" || rawRole == "" {
		return parcel.Actor{}, errUnauthenticated
	}

	role, err := parcel.ParseActorRole(rawRole)
	if err != nil {
		return parcel.Actor{}, err
	}
	if role == parcel.RoleSystem {
		return parcel.Actor{}, errs.NewNotPermittedError(role, "call the API")
	}
	id, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return parcel.Actor{}, err
	}
	return parcel.NewActor(id, role)
}

// courierFrom is actorFrom restricted to couriers.
func courierFrom(ctx echo.Context) (kernel.UUID, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return kernel.UUID{}, err
	}
	if actor.Role != parcel.RoleCourier {
		return kernel.UUID{}, errs.NewNotPermittedError(actor.Role, "act as a courier")
	}
	return *actor.ID, nil
}

// adminFrom is actorFrom restricted to administrators.
func adminFrom(ctx echo.Context) (parcel.Actor, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return parcel.Actor{}, err
	}
	if !actor.Role.IsAdministrative() {
		return parcel.Actor{}, errs.NewNotPermittedError(actor.Role, "use administration endpoints")
	}
	return actor, nil
}

// actsFor reports whether actor may manage resources belonging to ownerID.
func actsFor(actor parcel.Actor, ownerID kernel.UUID) bool {
	return actor.Role.IsAdministrative() || (actor.ID != nil && actor.ID.IsEqual(ownerID))
}
