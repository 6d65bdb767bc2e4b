package commands

import (
	"errors"

	"pickupoint/internal/pkg/guard"
)

// ReleaseStuckMissionsCommand triggers the reconciliation sweep: missions
// accepted but never picked up within the stuck timeout go back to pending,
// and exclusive offers the offer queue missed move to the next courier.
//
// Example:
//
//	cmd := NewReleaseStuckMissionsCommand()
//	handler := NewReleaseStuckMissionsCommandHandler(uowFactory, runtime)
//
//	released, err := handler.Handle(ctx, cmd)
type ReleaseStuckMissionsCommand struct {
	guard guard.ConstructorGuard
}

var (
	ErrReleaseStuckMissionsCommandIsNotConstructed = errors.New(
		"ReleaseStuckMissionsCommand must be created via NewReleaseStuckMissionsCommand constructor",
	)
)

// NewReleaseStuckMissionsCommand is parameterless; the cutoff comes from the
// dispatch policy at handling time.
func NewReleaseStuckMissionsCommand() ReleaseStuckMissionsCommand {
	return ReleaseStuckMissionsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c *ReleaseStuckMissionsCommand) Validate() error {
	return c.guard.Validate(ErrReleaseStuckMissionsCommandIsNotConstructed)
}
