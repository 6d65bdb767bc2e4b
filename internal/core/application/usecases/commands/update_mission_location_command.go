package commands

import (
	"errors"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/guard"
)

var ErrUpdateMissionLocationCommandIsNotConstructed = errors.New(
	"UpdateMissionLocationCommand must be created via NewUpdateMissionLocationCommand constructor",
)

// UpdateMissionLocationCommand is a position report from the courier
// running the mission.
type UpdateMissionLocationCommand struct { //nolint:recvcheck //using for validation
	missionID kernel.UUID
	courierID kernel.UUID
	point     kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewUpdateMissionLocationCommand(missionID, courierID kernel.UUID, point kernel.GeoPoint) (UpdateMissionLocationCommand, error) {
	if err := errors.Join(missionID.Validate(), courierID.Validate(), point.Validate()); err != nil {
		return UpdateMissionLocationCommand{}, err
	}
	return UpdateMissionLocationCommand{
		missionID: missionID,
		courierID: courierID,
		point:     point,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateMissionLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateMissionLocationCommandIsNotConstructed)
}

func (c UpdateMissionLocationCommand) MissionID() kernel.UUID { return c.missionID }
func (c UpdateMissionLocationCommand) CourierID() kernel.UUID { return c.courierID }
func (c UpdateMissionLocationCommand) Point() kernel.GeoPoint { return c.point }
