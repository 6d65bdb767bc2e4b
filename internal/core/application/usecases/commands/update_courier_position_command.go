package commands

import (
	"errors"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"
)

var ErrUpdateCourierPositionCommandIsNotConstructed = errors.New(
	"UpdateCourierPositionCommand must be created via NewUpdateCourierPositionCommand constructor",
)

// UpdateCourierPositionCommand is the courier app heartbeat: a position, an
// availability toggle, or both.
type UpdateCourierPositionCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	position  *kernel.GeoPoint
	available *bool

	guard guard.ConstructorGuard
}

func NewUpdateCourierPositionCommand(
	courierID kernel.UUID,
	position *kernel.GeoPoint,
	available *bool,
) (UpdateCourierPositionCommand, error) {
	var problems []error
	problems = append(problems, courierID.Validate())
	if position != nil {
		problems = append(problems, position.Validate())
	}
	if position == nil && available == nil {
		problems = append(problems, errs.NewValueIsRequiredError("position or available"))
	}
	if err := errors.Join(problems...); err != nil {
		return UpdateCourierPositionCommand{}, err
	}
	return UpdateCourierPositionCommand{
		courierID: courierID,
		position:  position,
		available: available,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCourierPositionCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierPositionCommandIsNotConstructed)
}

func (c UpdateCourierPositionCommand) CourierID() kernel.UUID     { return c.courierID }
func (c UpdateCourierPositionCommand) Position() *kernel.GeoPoint { return c.position }
func (c UpdateCourierPositionCommand) Available() *bool           { return c.available }
