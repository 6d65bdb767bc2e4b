package commands

import (
	"errors"
	"strings"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand is the courier's proof of drop-off. The code may be
// empty on a transit leg, which ends at a relay. Position is optional.
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	missionID kernel.UUID
	courierID kernel.UUID
	code      string
	position  *kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewConfirmDeliveryCommand(
	missionID, courierID kernel.UUID,
	code string,
	position *kernel.GeoPoint,
) (ConfirmDeliveryCommand, error) {
	var positionErr error
	if position != nil {
		positionErr = position.Validate()
	}
	if err := errors.Join(missionID.Validate(), courierID.Validate(), positionErr); err != nil {
		return ConfirmDeliveryCommand{}, err
	}
	return ConfirmDeliveryCommand{
		missionID: missionID,
		courierID: courierID,
		code:      strings.TrimSpace(code),
		position:  position,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

func (c ConfirmDeliveryCommand) MissionID() kernel.UUID     { return c.missionID }
func (c ConfirmDeliveryCommand) CourierID() kernel.UUID     { return c.courierID }
func (c ConfirmDeliveryCommand) Code() string               { return c.code }
func (c ConfirmDeliveryCommand) Position() *kernel.GeoPoint { return c.position }
