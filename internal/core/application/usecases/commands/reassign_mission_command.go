package commands

import (
	"errors"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/pkg/guard"
)

var ErrReassignMissionCommandIsNotConstructed = errors.New(
	"ReassignMissionCommand must be created via NewReassignMissionCommand constructor",
)

// ReassignMissionCommand forces a mission onto another courier.
type ReassignMissionCommand struct { //nolint:recvcheck //using for validation
	missionID kernel.UUID
	courierID kernel.UUID
	actor     parcel.Actor
	reason    string

	guard guard.ConstructorGuard
}

func NewReassignMissionCommand(
	missionID, courierID kernel.UUID,
	actor parcel.Actor,
	reason string,
) (ReassignMissionCommand, error) {
	if err := errors.Join(missionID.Validate(), courierID.Validate(), actor.Validate()); err != nil {
		return ReassignMissionCommand{}, err
	}
	return ReassignMissionCommand{
		missionID: missionID,
		courierID: courierID,
		actor:     actor,
		reason:    reason,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReassignMissionCommand) Validate() error {
	return c.guard.Validate(ErrReassignMissionCommandIsNotConstructed)
}

func (c ReassignMissionCommand) MissionID() kernel.UUID { return c.missionID }
func (c ReassignMissionCommand) CourierID() kernel.UUID { return c.courierID }
func (c ReassignMissionCommand) Actor() parcel.Actor    { return c.actor }
func (c ReassignMissionCommand) Reason() string         { return c.reason }
