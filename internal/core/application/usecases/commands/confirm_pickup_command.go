package commands

import (
	"errors"
	"strings"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"
)

var ErrConfirmPickupCommandIsNotConstructed = errors.New(
	"ConfirmPickupCommand must be created via NewConfirmPickupCommand constructor",
)

// ConfirmPickupCommand is the courier presenting the pickup code at the
// start of a mission.
type ConfirmPickupCommand struct { //nolint:recvcheck //using for validation
	missionID kernel.UUID
	courierID kernel.UUID
	code      string

	guard guard.ConstructorGuard
}

func NewConfirmPickupCommand(missionID, courierID kernel.UUID, code string) (ConfirmPickupCommand, error) {
	code = strings.TrimSpace(code)
	var codeErr error
	if code == "" {
		codeErr = errs.NewValueIsRequiredError("code")
	}
	if err := errors.Join(missionID.Validate(), courierID.Validate(), codeErr); err != nil {
		return ConfirmPickupCommand{}, err
	}
	return ConfirmPickupCommand{
		missionID: missionID,
		courierID: courierID,
		code:      code,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmPickupCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPickupCommandIsNotConstructed)
}

func (c ConfirmPickupCommand) MissionID() kernel.UUID { return c.missionID }
func (c ConfirmPickupCommand) CourierID() kernel.UUID { return c.courierID }
func (c ConfirmPickupCommand) Code() string           { return c.code }
