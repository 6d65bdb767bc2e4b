package commands

import (
	"errors"
	"maps"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/pkg/guard"
)

var ErrTransitionParcelCommandIsNotConstructed = errors.New(
	"TransitionParcelCommand must be created via NewTransitionParcelCommand constructor",
)

// TransitionParcelCommand asks to move a parcel to another lifecycle status on
// behalf of an actor.
//
// Example:
//
//	actor, _ := parcel.NewActor(agentID, parcel.RoleRelayAgent)
//	cmd, err := NewTransitionParcelCommand(parcelID, parcel.DroppedAtOriginRelay, actor, "counter 2", nil)
//	if err != nil {
//	    return err
//	}
//	p, err := handler.Handle(ctx, cmd)
type TransitionParcelCommand struct { //nolint:recvcheck //using for validation
	parcelID kernel.UUID
	target   parcel.Status
	actor    parcel.Actor
	note     string
	metadata map[string]any

	guard guard.ConstructorGuard
}

func NewTransitionParcelCommand(
	parcelID kernel.UUID,
	target parcel.Status,
	actor parcel.Actor,
	note string,
	metadata map[string]any,
) (TransitionParcelCommand, error) {
	if err := errors.Join(parcelID.Validate(), target.Validate(), actor.Validate()); err != nil {
		return TransitionParcelCommand{}, err
	}

	return TransitionParcelCommand{
		parcelID: parcelID,
		target:   target,
		actor:    actor,
		note:     note,
		metadata: maps.Clone(metadata),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c TransitionParcelCommand) Validate() error {
	return c.guard.Validate(ErrTransitionParcelCommandIsNotConstructed)
}

func (c TransitionParcelCommand) ParcelID() kernel.UUID    { return c.parcelID }
func (c TransitionParcelCommand) Target() parcel.Status    { return c.target }
func (c TransitionParcelCommand) Actor() parcel.Actor      { return c.actor }
func (c TransitionParcelCommand) Note() string             { return c.note }
func (c TransitionParcelCommand) Metadata() map[string]any { return maps.Clone(c.metadata) }
