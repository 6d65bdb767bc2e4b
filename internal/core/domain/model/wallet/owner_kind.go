package wallet

import (
	"fmt"

	"pickupoint/internal/pkg/errs"
)

// OwnerKind tells whose earnings a wallet holds.
type OwnerKind int

const (
	OwnerUnknown OwnerKind = iota
	OwnerCourier
	OwnerRelay
)

func ParseOwnerKind(s string) (OwnerKind, error) {
	switch s {
	case "courier":
		return OwnerCourier, nil
	case "relay":
		return OwnerRelay, nil
	}
	return OwnerUnknown, errs.NewValueIsInvalidErrorWithCause("owner_kind", fmt.Errorf("%q is not an owner kind", s))
}

func (k OwnerKind) String() string {
	switch k {
	case OwnerCourier:
		return "courier"
	case OwnerRelay:
		return "relay"
	case OwnerUnknown:
	}
	return "unknown"
}

func (k OwnerKind) Validate() error {
	switch k {
	case OwnerCourier, OwnerRelay:
		return nil
	case OwnerUnknown:
	}
	return errs.NewValueIsInvalidErrorWithCause("owner_kind", fmt.Errorf("%d is not a valid owner kind", k))
}

// TxKind is the direction of a wallet transaction.
type TxKind int

const (
	TxUnknown TxKind = iota
	TxCredit
	TxDebit
)

func ParseTxKind(s string) (TxKind, error) {
	switch s {
	case "credit":
		return TxCredit, nil
	case "debit":
		return TxDebit, nil
	}
	return TxUnknown, errs.NewValueIsInvalidErrorWithCause("tx_kind", fmt.Errorf("%q is not a transaction kind", s))
}

func (k TxKind) String() string {
	switch k {
	case TxCredit:
		return "credit"
	case TxDebit:
		return "debit"
	case TxUnknown:
	}
	return "unknown"
}
