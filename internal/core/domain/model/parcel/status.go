package parcel

import (
	"fmt"

	"pickupoint/internal/pkg/errs"
)

// Status is the lifecycle phase of a parcel. Exactly one status is held at a
// time; Delivered, Cancelled, Expired and Returned are terminal.
type Status int

const (
	StatusUnknown Status = iota
	Created
	DroppedAtOriginRelay
	InTransit
	AtDestinationRelay
	AvailableAtRelay
	OutForDelivery
	Delivered
	DeliveryFailed
	RedirectedToRelay
	Cancelled
	Expired
	Returned
	Disputed
)

var statusNames = map[Status]string{
	Created:              "CREATED",
	DroppedAtOriginRelay: "DROPPED_AT_ORIGIN_RELAY",
	InTransit:            "IN_TRANSIT",
	AtDestinationRelay:   "AT_DESTINATION_RELAY",
	AvailableAtRelay:     "AVAILABLE_AT_RELAY",
	OutForDelivery:       "OUT_FOR_DELIVERY",
	Delivered:            "DELIVERED",
	DeliveryFailed:       "DELIVERY_FAILED",
	RedirectedToRelay:    "REDIRECTED_TO_RELAY",
	Cancelled:            "CANCELLED",
	Expired:              "EXPIRED",
	Returned:             "RETURNED",
	Disputed:             "DISPUTED",
}

// ParseStatus maps the wire name (e.g. "OUT_FOR_DELIVERY") to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a parcel status", s))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) IsTerminal() bool {
	return len(s.AllowedTargets()) == 0
}

// AllowedTargets lists the statuses reachable in one step.
func (s Status) AllowedTargets() []Status {
	switch s {
	case Created:
		return []Status{DroppedAtOriginRelay, OutForDelivery, Cancelled}
	case DroppedAtOriginRelay:
		return []Status{InTransit, Cancelled}
	case InTransit:
		return []Status{AtDestinationRelay, OutForDelivery}
	case AtDestinationRelay:
		return []Status{AvailableAtRelay, OutForDelivery}
	case AvailableAtRelay:
		return []Status{Delivered, Expired}
	case OutForDelivery:
		return []Status{Delivered, DeliveryFailed}
	case DeliveryFailed:
		return []Status{RedirectedToRelay, Returned}
	case RedirectedToRelay:
		return []Status{AvailableAtRelay}
	case Disputed:
		return []Status{Delivered, Returned, Cancelled}
	case Delivered, Cancelled, Expired, Returned, StatusUnknown:
		return nil
	}
	return nil
}

// CanTransitionTo reports whether target is an allowed next status.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range s.AllowedTargets() {
		if allowed == target {
			return true
		}
	}
	return false
}
