package commands

import (
	"errors"
	"slices"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/pricing"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"
)

var ErrUpsertPricingZoneCommandIsNotConstructed = errors.New(
	"UpsertPricingZoneCommand must be created via NewUpsertPricingZoneCommand constructor",
)

// UpsertPricingZoneCommand creates or replaces a zone and its relay list.
type UpsertPricingZoneCommand struct { //nolint:recvcheck //using for validation
	zone  pricing.Zone
	actor parcel.Actor

	guard guard.ConstructorGuard
}

func NewUpsertPricingZoneCommand(
	id kernel.UUID,
	name string,
	relayIDs []kernel.UUID,
	active bool,
	actor parcel.Actor,
) (UpsertPricingZoneCommand, error) {
	zone, err := pricing.NewZone(id, name, relayIDs, active)
	if err = errors.Join(err, actor.Validate()); err != nil {
		return UpsertPricingZoneCommand{}, err
	}
	if !actor.Role.IsAdministrative() {
		return UpsertPricingZoneCommand{}, errs.NewNotPermittedError(actor.Role, "change pricing zones")
	}
	return UpsertPricingZoneCommand{zone: *zone, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c UpsertPricingZoneCommand) Validate() error {
	return c.guard.Validate(ErrUpsertPricingZoneCommandIsNotConstructed)
}

func (c UpsertPricingZoneCommand) Zone() pricing.Zone {
	z := c.zone
	z.RelayIDs = slices.Clone(c.zone.RelayIDs)
	return z
}

func (c UpsertPricingZoneCommand) Actor() parcel.Actor { return c.actor }
