package commands

import (
	"errors"
	"strings"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"
)

var ErrRegisterRelayCommandIsNotConstructed = errors.New(
	"RegisterRelayCommand must be created via NewRegisterRelayCommand constructor",
)

// RegisterRelayCommand adds a relay point to the network. Relays without a
// point are valid but never chosen for a nearest-relay redirect.
type RegisterRelayCommand struct { //nolint:recvcheck //using for validation
	name    string
	ownerID kernel.UUID
	city    string
	point   *kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewRegisterRelayCommand(name string, ownerID kernel.UUID, city string, point *kernel.GeoPoint) (RegisterRelayCommand, error) {
	name = strings.TrimSpace(name)
	var problems []error
	if name == "" {
		problems = append(problems, errs.NewValueIsRequiredError("name"))
	}
	problems = append(problems, ownerID.Validate())
	if point != nil {
		problems = append(problems, point.Validate())
	}
	if err := errors.Join(problems...); err != nil {
		return RegisterRelayCommand{}, err
	}
	return RegisterRelayCommand{
		name:    name,
		ownerID: ownerID,
		city:    strings.TrimSpace(city),
		point:   point,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterRelayCommand) Validate() error {
	return c.guard.Validate(ErrRegisterRelayCommandIsNotConstructed)
}

func (c RegisterRelayCommand) Name() string            { return c.name }
func (c RegisterRelayCommand) OwnerID() kernel.UUID    { return c.ownerID }
func (c RegisterRelayCommand) City() string            { return c.city }
func (c RegisterRelayCommand) Point() *kernel.GeoPoint { return c.point }
