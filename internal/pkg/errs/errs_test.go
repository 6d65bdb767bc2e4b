package errs_test

import (
	"errors"
	"testing"

	"pickupoint/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type label string

func (l label) String() string { return string(l) }

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("parcel", "123")

		assert.Equal(t, "parcel", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: parcel 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("parcel", "123", cause)

		assert.Equal(t,
			"object not found: param is: parcel, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("lat", 91.5, -90, 90)

		assert.Equal(t, "value is out of range: lat is 91.5, min value is -90, max value is 90", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("newlines are flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("note", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{"invalid", errs.NewValueIsInvalidError("phone"), errs.ErrValueIsInvalid, "value is invalid: phone"},
		{
			"invalid with cause",
			errs.NewValueIsInvalidErrorWithCause("phone", errors.New("too short")),
			errs.ErrValueIsInvalid,
			"value is invalid: phone (cause: too short)",
		},
		{"required", errs.NewValueIsRequiredError("name"), errs.ErrValueIsRequired, "value is required: name"},
		{"version", errs.NewVersionIsInvalidError("mission"), errs.ErrVersionIsInvalid, "version is invalid: mission"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			require.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestDomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"illegal transition", errs.NewIllegalTransitionError(label("CREATED"), label("DELIVERED")), errs.ErrIllegalTransition},
		{"illegal state", errs.NewIllegalStateError("mission", label("in_progress"), "release"), errs.ErrIllegalState},
		{"invalid code", errs.NewInvalidCodeError("pickup"), errs.ErrInvalidCode},
		{"out of range", errs.NewOutOfRangeError(612, 500), errs.ErrOutOfRange},
		{"already assigned", errs.NewAlreadyAssignedError("m1"), errs.ErrAlreadyAssigned},
		{"courier busy", errs.NewCourierBusyError("c1"), errs.ErrCourierBusy},
		{"payment pending", errs.NewPaymentPendingError("p1"), errs.ErrPaymentPending},
		{"insufficient funds", errs.NewInsufficientFundsError("w1", label("100"), label("500")), errs.ErrInsufficientFunds},
		{"not permitted", errs.NewNotPermittedError(label("client"), "deliver"), errs.ErrNotPermitted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.err, tt.sentinel)
			assert.NotEmpty(t, tt.err.Error())
		})
	}

	t.Run("transition message names both ends", func(t *testing.T) {
		err := errs.NewIllegalTransitionError(label("CREATED"), label("DELIVERED"))
		assert.Equal(t, "illegal status transition: CREATED -> DELIVERED", err.Error())
	})

	t.Run("geofence message", func(t *testing.T) {
		err := errs.NewOutOfRangeError(612.4, 500)
		assert.Equal(t, "position is out of range: 612 m from target, allowed 500 m", err.Error())
	})
}

func TestRetryableError(t *testing.T) {
	cause := errs.NewInsufficientFundsError("w1", label("0"), label("10"))
	err := errs.NewRetryableError("distribute revenue", cause)

	require.ErrorIs(t, err, errs.ErrRetryable)
	require.ErrorIs(t, err, errs.ErrInsufficientFunds)

	var target *errs.InsufficientFundsError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "w1", target.WalletID)
}
