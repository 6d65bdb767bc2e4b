package commands

import (
	"errors"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/guard"
)

var ErrAdvanceOfferCommandIsNotConstructed = errors.New(
	"AdvanceOfferCommand must be created via NewAdvanceOfferCommand constructor",
)

// AdvanceOfferCommand is raised by the offer queue when a mission's
// exclusive offer reaches its expiry.
type AdvanceOfferCommand struct { //nolint:recvcheck //using for validation
	missionID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAdvanceOfferCommand(missionID kernel.UUID) (AdvanceOfferCommand, error) {
	if err := missionID.Validate(); err != nil {
		return AdvanceOfferCommand{}, err
	}
	return AdvanceOfferCommand{missionID: missionID, guard: guard.NewConstructorGuard()}, nil
}

func (c AdvanceOfferCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOfferCommandIsNotConstructed)
}

func (c AdvanceOfferCommand) MissionID() kernel.UUID { return c.missionID }
