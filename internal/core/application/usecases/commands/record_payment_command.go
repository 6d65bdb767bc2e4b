package commands

import (
	"errors"
	"strings"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrRecordPaymentCommandIsNotConstructed = errors.New(
	"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
)

// RecordPaymentCommand carries the payment gateway's verdict for a parcel.
// The parcel is named either by ID or by tracking code.
type RecordPaymentCommand struct { //nolint:recvcheck //using for validation
	parcelID     *kernel.UUID
	trackingCode string
	succeeded    bool
	amount       decimal.Decimal
	method       string
	reference    string

	guard guard.ConstructorGuard
}

func NewRecordPaymentCommand(
	parcelID *kernel.UUID,
	trackingCode string,
	succeeded bool,
	amount decimal.Decimal,
	method string,
	reference string,
) (RecordPaymentCommand, error) {
	trackingCode = strings.ToUpper(strings.TrimSpace(trackingCode))
	if parcelID == nil && trackingCode == "" {
		return RecordPaymentCommand{}, errs.NewValueIsRequiredError("parcel_id or tracking_code")
	}
	if parcelID != nil {
		if err := parcelID.Validate(); err != nil {
			return RecordPaymentCommand{}, err
		}
	}
	if succeeded && !amount.IsPositive() {
		return RecordPaymentCommand{}, errs.NewValueIsOutOfRangeError("amount", amount, "> 0", "-")
	}
	if strings.TrimSpace(reference) == "" {
		return RecordPaymentCommand{}, errs.NewValueIsRequiredError("reference")
	}

	return RecordPaymentCommand{
		parcelID:     parcelID,
		trackingCode: trackingCode,
		succeeded:    succeeded,
		amount:       amount,
		method:       method,
		reference:    reference,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

func (c RecordPaymentCommand) ParcelID() *kernel.UUID  { return c.parcelID }
func (c RecordPaymentCommand) TrackingCode() string    { return c.trackingCode }
func (c RecordPaymentCommand) Succeeded() bool         { return c.succeeded }
func (c RecordPaymentCommand) Amount() decimal.Decimal { return c.amount }
func (c RecordPaymentCommand) Method() string          { return c.method }
func (c RecordPaymentCommand) Reference() string       { return c.reference }
