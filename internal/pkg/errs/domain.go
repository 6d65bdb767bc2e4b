package errs

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrIllegalState      = errors.New("illegal state")
	ErrInvalidCode       = errors.New("invalid confirmation code")
	ErrOutOfRange        = errors.New("position is out of range")
	ErrAlreadyAssigned   = errors.New("mission is already assigned")
	ErrCourierBusy       = errors.New("courier already holds an active mission")
	ErrPaymentPending    = errors.New("payment is not settled")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotPermitted      = errors.New("action is not permitted")
	ErrRetryable         = errors.New("retryable failure")
)

// IllegalTransitionError reports a status change outside the allowed graph.
type IllegalTransitionError struct {
	From string
	To   string
}

func NewIllegalTransitionError(from, to fmt.Stringer) *IllegalTransitionError {
	return &IllegalTransitionError{From: from.String(), To: to.String()}
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrIllegalTransition, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// IllegalStateError reports an action requested in the wrong lifecycle phase.
type IllegalStateError struct {
	Entity string
	State  string
	Action string
}

func NewIllegalStateError(entity string, state fmt.Stringer, action string) *IllegalStateError {
	return &IllegalStateError{Entity: entity, State: state.String(), Action: action}
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("%s: cannot %s %s in state %s", ErrIllegalState, e.Action, e.Entity, e.State)
}

func (e *IllegalStateError) Unwrap() error {
	return ErrIllegalState
}

// InvalidCodeError reports a pickup or delivery code mismatch. The presented
// code is never echoed back.
type InvalidCodeError struct {
	Kind string
}

func NewInvalidCodeError(kind string) *InvalidCodeError {
	return &InvalidCodeError{Kind: kind}
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("%s: %s code does not match", ErrInvalidCode, e.Kind)
}

func (e *InvalidCodeError) Unwrap() error {
	return ErrInvalidCode
}

// OutOfRangeError reports a geofence violation.
type OutOfRangeError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func NewOutOfRangeError(distanceMeters, radiusMeters float64) *OutOfRangeError {
	return &OutOfRangeError{DistanceMeters: distanceMeters, RadiusMeters: radiusMeters}
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %.0f m from target, allowed %.0f m", ErrOutOfRange, e.DistanceMeters, e.RadiusMeters)
}

func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfRange
}

type AlreadyAssignedError struct {
	MissionID string
}

func NewAlreadyAssignedError(missionID string) *AlreadyAssignedError {
	return &AlreadyAssignedError{MissionID: missionID}
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAlreadyAssigned, e.MissionID)
}

func (e *AlreadyAssignedError) Unwrap() error {
	return ErrAlreadyAssigned
}

type CourierBusyError struct {
	CourierID string
}

func NewCourierBusyError(courierID string) *CourierBusyError {
	return &CourierBusyError{CourierID: courierID}
}

func (e *CourierBusyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCourierBusy, e.CourierID)
}

func (e *CourierBusyError) Unwrap() error {
	return ErrCourierBusy
}

type PaymentPendingError struct {
	ParcelID string
}

func NewPaymentPendingError(parcelID string) *PaymentPendingError {
	return &PaymentPendingError{ParcelID: parcelID}
}

func (e *PaymentPendingError) Error() string {
	return fmt.Sprintf("%s: parcel %s", ErrPaymentPending, e.ParcelID)
}

func (e *PaymentPendingError) Unwrap() error {
	return ErrPaymentPending
}

type InsufficientFundsError struct {
	WalletID  string
	Balance   string
	Requested string
}

func NewInsufficientFundsError(walletID string, balance, requested fmt.Stringer) *InsufficientFundsError {
	return &InsufficientFundsError{WalletID: walletID, Balance: balance.String(), Requested: requested.String()}
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: wallet %s has %s, requested %s", ErrInsufficientFunds, e.WalletID, e.Balance, e.Requested)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// NotPermittedError reports that the actor's role may not perform the action.
type NotPermittedError struct {
	Role   string
	Action string
}

func NewNotPermittedError(role fmt.Stringer, action string) *NotPermittedError {
	return &NotPermittedError{Role: role.String(), Action: action}
}

func (e *NotPermittedError) Error() string {
	return fmt.Sprintf("%s: %s may not %s", ErrNotPermitted, e.Role, e.Action)
}

func (e *NotPermittedError) Unwrap() error {
	return ErrNotPermitted
}

// RetryableError marks a transient failure the caller may retry as a whole.
// Both ErrRetryable and the cause are reachable through errors.Is/As.
type RetryableError struct {
	Op    string
	Cause error
}

func NewRetryableError(op string, cause error) *RetryableError {
	return &RetryableError{Op: op, Cause: cause}
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrRetryable, e.Op, e.Cause)
}

func (e *RetryableError) Unwrap() []error {
	return []error{ErrRetryable, e.Cause}
}
