package commands

import (
	"errors"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/pkg/guard"
)

var ErrReleaseMissionCommandIsNotConstructed = errors.New(
	"ReleaseMissionCommand must be created via NewReleaseMissionCommand constructor",
)

// ReleaseMissionCommand hands an accepted, not yet picked up mission back.
// Couriers may release only their own mission; admins may release any.
type ReleaseMissionCommand struct { //nolint:recvcheck //using for validation
	missionID kernel.UUID
	actor     parcel.Actor
	reason    string

	guard guard.ConstructorGuard
}

func NewReleaseMissionCommand(missionID kernel.UUID, actor parcel.Actor, reason string) (ReleaseMissionCommand, error) {
	if err := errors.Join(missionID.Validate(), actor.Validate()); err != nil {
		return ReleaseMissionCommand{}, err
	}
	return ReleaseMissionCommand{
		missionID: missionID,
		actor:     actor,
		reason:    reason,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReleaseMissionCommand) Validate() error {
	return c.guard.Validate(ErrReleaseMissionCommandIsNotConstructed)
}

func (c ReleaseMissionCommand) MissionID() kernel.UUID { return c.missionID }
func (c ReleaseMissionCommand) Actor() parcel.Actor    { return c.actor }
func (c ReleaseMissionCommand) Reason() string         { return c.reason }
