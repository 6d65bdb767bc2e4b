package mission

import (
	"fmt"

	"pickupoint/internal/pkg/errs"
)

// Status is the lifecycle of a courier job:
//
//	pending -> assigned -> in_progress -> completed | failed
//
// plus cancelled from pending or assigned.
type Status int

const (
	StatusUnknown Status = iota
	Pending
	Assigned
	InProgress
	Completed
	Failed
	Cancelled
)

var statusNames = map[Status]string{
	Pending:    "pending",
	Assigned:   "assigned",
	InProgress: "in_progress",
	Completed:  "completed",
	Failed:     "failed",
	Cancelled:  "cancelled",
}

func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("mission_status", fmt.Errorf("%q is not a mission status", s))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("mission_status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsActive reports whether the mission is non-terminal.
func (s Status) IsActive() bool {
	switch s {
	case Pending, Assigned, InProgress:
		return true
	case Completed, Failed, Cancelled, StatusUnknown:
		return false
	}
	return false
}

// HoldsCourier reports whether a courier is bound to the mission.
func (s Status) HoldsCourier() bool {
	return s == Assigned || s == InProgress
}

// ActiveStatuses lists the non-terminal statuses, for repository filters.
func ActiveStatuses() []Status {
	return []Status{Pending, Assigned, InProgress}
}

// CourierHoldingStatuses lists the statuses that bind a courier.
func CourierHoldingStatuses() []Status {
	return []Status{Assigned, InProgress}
}

type actorLabel string

func (l actorLabel) String() string { return string(l) }

const courierRole actorLabel = "courier"
