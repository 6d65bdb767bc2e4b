package parcel

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"
)

// EventKind classifies an audit event.
type EventKind string

const (
	EventParcelCreated         EventKind = "PARCEL_CREATED"
	EventStatusChanged         EventKind = "STATUS_CHANGED"
	EventPaymentReceived       EventKind = "PAYMENT_RECEIVED"
	EventPaymentFailed         EventKind = "PAYMENT_FAILED"
	EventMissionCreated        EventKind = "MISSION_CREATED"
	EventMissionAssigned       EventKind = "MISSION_ASSIGNED"
	EventMissionReleased       EventKind = "MISSION_RELEASED"
	EventPickupConfirmed       EventKind = "PICKUP_CONFIRMED"
	EventCourierReassigned     EventKind = "COURIER_REASSIGNED"
	EventRevenueDistributed    EventKind = "REVENUE_DISTRIBUTED"
	EventRelayRedirectAssigned EventKind = "RELAY_REDIRECT_ASSIGNED"
)

func (k EventKind) Validate() error {
	switch k {
	case EventParcelCreated, EventStatusChanged, EventPaymentReceived, EventPaymentFailed,
		EventMissionCreated, EventMissionAssigned, EventMissionReleased, EventPickupConfirmed,
		EventCourierReassigned, EventRevenueDistributed, EventRelayRedirectAssigned:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("event_kind", fmt.Errorf("%q is not an event kind", string(k)))
}

var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent, NewStatusChangedEvent or RestoreEvent")

// Event is an immutable fact in a parcel's audit timeline. Events are only
// ever appended; there is no way to change one after construction.
type Event struct {
	id        kernel.UUID
	parcelID  kernel.UUID
	kind      EventKind
	from      *Status
	to        *Status
	actor     Actor
	note      string
	metadata  map[string]any
	createdAt time.Time
	guard     guard.ConstructorGuard
}

// NewEvent builds a non-transition event.
func NewEvent(
	parcelID kernel.UUID,
	kind EventKind,
	actor Actor,
	note string,
	metadata map[string]any,
	now time.Time,
) (*Event, error) {
	e := &Event{
		id:        kernel.NewUUID(),
		parcelID:  parcelID,
		kind:      kind,
		actor:     actor,
		note:      note,
		metadata:  maps.Clone(metadata),
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}
	if err := errors.Join(parcelID.Validate(), kind.Validate(), actor.Validate()); err != nil {
		return nil, err
	}
	return e, nil
}

// NewStatusChangedEvent records a transition from -> to.
func NewStatusChangedEvent(
	parcelID kernel.UUID,
	from, to Status,
	actor Actor,
	note string,
	metadata map[string]any,
	now time.Time,
) (*Event, error) {
	e, err := NewEvent(parcelID, EventStatusChanged, actor, note, metadata, now)
	if err != nil {
		return nil, err
	}
	if err = errors.Join(from.Validate(), to.Validate()); err != nil {
		return nil, err
	}
	e.from, e.to = &from, &to
	return e, nil
}

// RestoreEvent rebuilds an event read from the log.
func RestoreEvent(
	id, parcelID kernel.UUID,
	kind EventKind,
	from, to *Status,
	actor Actor,
	note string,
	metadata map[string]any,
	createdAt time.Time,
) (*Event, error) {
	if err := errors.Join(id.Validate(), parcelID.Validate(), kind.Validate()); err != nil {
		return nil, err
	}
	return &Event{
		id:        id,
		parcelID:  parcelID,
		kind:      kind,
		from:      from,
		to:        to,
		actor:     actor,
		note:      note,
		metadata:  metadata,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (e *Event) Validate() error {
	if e == nil {
		return ErrEventIsNotConstructed
	}
	return e.guard.Validate(ErrEventIsNotConstructed)
}

func (e *Event) ID() kernel.UUID       { return e.id }
func (e *Event) ParcelID() kernel.UUID { return e.parcelID }
func (e *Event) Kind() EventKind       { return e.kind }
func (e *Event) From() *Status         { return e.from }
func (e *Event) To() *Status           { return e.to }
func (e *Event) Actor() Actor          { return e.actor }
func (e *Event) Note() string          { return e.note }
func (e *Event) CreatedAt() time.Time  { return e.createdAt }

// Metadata returns a copy of the structured payload.
func (e *Event) Metadata() map[string]any {
	return maps.Clone(e.metadata)
}
