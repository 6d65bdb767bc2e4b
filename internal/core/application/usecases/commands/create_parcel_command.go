package commands

import (
	"errors"
	"regexp"

	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrCreateParcelCommandIsNotConstructed = errors.New(
		"CreateParcelCommand must be created via NewCreateParcelCommand constructor",
	)

	phonePattern = regexp.MustCompile(`^\+?[0-9 ]{8,20}$`)
)

// MaxParcelWeightKg is the heaviest parcel the network accepts.
const MaxParcelWeightKg = 70

// CreateParcelCommand registers a parcel described by its sender.
//
// Example:
//
//	cmd, err := NewCreateParcelCommand(parcel.Spec{
//	    SenderID:           senderID,
//	    RecipientName:      "Ama Mensah",
//	    RecipientPhone:     "+228 90 00 00 00",
//	    Mode:               parcel.RelayToRelay,
//	    OriginRelayID:      &origin,
//	    DestinationRelayID: &destination,
//	    WeightKg:           1.5,
//	})
type CreateParcelCommand struct { //nolint:recvcheck //using for validation
	spec parcel.Spec

	guard guard.ConstructorGuard
}

// NewCreateParcelCommand checks the request fields. Mode-specific endpoint
// rules are enforced by the parcel itself.
func NewCreateParcelCommand(spec parcel.Spec) (CreateParcelCommand, error) {
	err := validation.ValidateStruct(&spec,
		validation.Field(&spec.RecipientName, validation.Required, validation.Length(2, 128)),
		validation.Field(&spec.RecipientPhone, validation.Required, validation.Match(phonePattern)),
		validation.Field(&spec.WeightKg, validation.Required, validation.Min(0.01), validation.Max(float64(MaxParcelWeightKg))),
	)
	if err != nil {
		return CreateParcelCommand{}, errs.NewValueIsInvalidErrorWithCause("parcel", err)
	}
	if spec.DeclaredValue.IsNegative() {
		return CreateParcelCommand{}, errs.NewValueIsOutOfRangeError("declared_value", spec.DeclaredValue, 0, "-")
	}
	if err = errors.Join(spec.SenderID.Validate(), spec.Mode.Validate()); err != nil {
		return CreateParcelCommand{}, err
	}

	return CreateParcelCommand{spec: spec, guard: guard.NewConstructorGuard()}, nil
}

func (c CreateParcelCommand) Validate() error {
	return c.guard.Validate(ErrCreateParcelCommandIsNotConstructed)
}

func (c CreateParcelCommand) Spec() parcel.Spec {
	return c.spec
}
