package commands

import (
	"errors"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/guard"
)

var ErrAcceptMissionCommandIsNotConstructed = errors.New(
	"AcceptMissionCommand must be created via NewAcceptMissionCommand constructor",
)

// AcceptMissionCommand is a courier taking a pending mission.
type AcceptMissionCommand struct { //nolint:recvcheck //using for validation
	missionID kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptMissionCommand(missionID, courierID kernel.UUID) (AcceptMissionCommand, error) {
	if err := errors.Join(missionID.Validate(), courierID.Validate()); err != nil {
		return AcceptMissionCommand{}, err
	}
	return AcceptMissionCommand{
		missionID: missionID,
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AcceptMissionCommand) Validate() error {
	return c.guard.Validate(ErrAcceptMissionCommandIsNotConstructed)
}

func (c AcceptMissionCommand) MissionID() kernel.UUID { return c.missionID }
func (c AcceptMissionCommand) CourierID() kernel.UUID { return c.courierID }
