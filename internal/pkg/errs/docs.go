// Package errs provides the error types shared by the parcel engine.
//
// Every type follows the same pattern:
//   - a sentinel variable (ErrValueIsRequired, ErrIllegalTransition, ...)
//   - a struct carrying the details
//   - New... constructors, with a ...WithCause variant where a cause makes sense
//   - Error() for formatting and Unwrap() returning the sentinel
//
// Callers branch with errors.Is on the sentinel and use errors.As when they
// need the details. The HTTP adapter maps the sentinels to status codes.
//
// Validation failures use the Value* family. Lifecycle and dispatch conflicts
// use the domain family: IllegalTransitionError, IllegalStateError,
// InvalidCodeError, OutOfRangeError, AlreadyAssignedError, CourierBusyError,
// PaymentPendingError, InsufficientFundsError and NotPermittedError.
// RetryableError wraps transient ledger failures.
package errs
