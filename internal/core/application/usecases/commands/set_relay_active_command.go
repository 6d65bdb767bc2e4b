package commands

import (
	"errors"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/guard"
)

var ErrSetRelayActiveCommandIsNotConstructed = errors.New(
	"SetRelayActiveCommand must be created via NewSetRelayActiveCommand constructor",
)

// SetRelayActiveCommand opens or closes a relay. Closed relays keep their
// parcels but are skipped by the nearest-relay redirect.
type SetRelayActiveCommand struct { //nolint:recvcheck //using for validation
	relayID kernel.UUID
	active  bool

	guard guard.ConstructorGuard
}

func NewSetRelayActiveCommand(relayID kernel.UUID, active bool) (SetRelayActiveCommand, error) {
	if err := relayID.Validate(); err != nil {
		return SetRelayActiveCommand{}, err
	}
	return SetRelayActiveCommand{relayID: relayID, active: active, guard: guard.NewConstructorGuard()}, nil
}

func (c SetRelayActiveCommand) Validate() error {
	return c.guard.Validate(ErrSetRelayActiveCommandIsNotConstructed)
}

func (c SetRelayActiveCommand) RelayID() kernel.UUID { return c.relayID }
func (c SetRelayActiveCommand) Active() bool         { return c.active }
