package parcel

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// HoldPeriod is how long a parcel may wait in the network before it expires.
const HoldPeriod = 7 * 24 * time.Hour

var ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel or RestoreParcel")

// Spec is the sender's description of a parcel at creation time.
type Spec struct {
	SenderID           kernel.UUID
	RecipientName      string
	RecipientPhone     string
	Mode               DeliveryMode
	OriginRelayID      *kernel.UUID
	DestinationRelayID *kernel.UUID
	OriginPoint        *kernel.GeoPoint
	DeliveryPoint      *kernel.GeoPoint
	WeightKg           float64
	DeclaredValue      decimal.Decimal
	Insured            bool
	Express            bool
}

// Snapshot is the full persisted state of a parcel, used by RestoreParcel.
type Snapshot struct {
	ID              kernel.UUID
	TrackingCode    string
	Spec            Spec
	QuotedPrice     decimal.Decimal
	PaidPrice       *decimal.Decimal
	PaymentStatus   PaymentStatus
	PaymentRef      string
	PickupCode      string
	DeliveryCode    string
	Status          Status
	CourierID       *kernel.UUID
	RedirectRelayID *kernel.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ExpiresAt       time.Time
	Version         int64
}

// Parcel is the aggregate root of the lifecycle engine.
//
// Invariants:
//   - exactly one status at a time, changed only along the transition graph
//   - pickup and delivery codes are issued once and never change
//   - the price is fixed once payment is received
//   - DELIVERED is reachable only after payment is settled
type Parcel struct {
	id              kernel.UUID
	trackingCode    string
	spec            Spec
	quotedPrice     decimal.Decimal
	paidPrice       *decimal.Decimal
	paymentStatus   PaymentStatus
	paymentRef      string
	pickupCode      ConfirmationCode
	deliveryCode    ConfirmationCode
	status          Status
	courierID       *kernel.UUID
	redirectRelayID *kernel.UUID
	createdAt       time.Time
	updatedAt       time.Time
	expiresAt       time.Time
	version         int64
	guard           guard.ConstructorGuard
}

// NewParcel validates the spec, issues the tracking and confirmation codes and
// returns a parcel in CREATED with payment pending.
func NewParcel(spec Spec, quotedPrice decimal.Decimal, now time.Time) (*Parcel, error) {
	trackingCode, err := GenerateTrackingCode()
	if err != nil {
		return nil, err
	}
	pickupCode, err := GenerateConfirmationCode()
	if err != nil {
		return nil, err
	}
	deliveryCode, err := GenerateConfirmationCode()
	if err != nil {
		return nil, err
	}

	p := &Parcel{
		id:            kernel.NewUUID(),
		trackingCode:  trackingCode,
		paymentStatus: PaymentPending,
		pickupCode:    pickupCode,
		deliveryCode:  deliveryCode,
		status:        Created,
		createdAt:     now,
		updatedAt:     now,
		expiresAt:     now.Add(HoldPeriod),
		guard:         guard.NewConstructorGuard(),
	}

	if err = errors.Join(p.setSpec(spec), p.setQuotedPrice(quotedPrice)); err != nil {
		return nil, err
	}
	return p, nil
}

// RestoreParcel rebuilds a parcel from storage.
func RestoreParcel(s Snapshot) (*Parcel, error) {
	p := &Parcel{
		trackingCode:    s.TrackingCode,
		paidPrice:       s.PaidPrice,
		paymentStatus:   s.PaymentStatus,
		paymentRef:      s.PaymentRef,
		status:          s.Status,
		courierID:       s.CourierID,
		redirectRelayID: s.RedirectRelayID,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
		expiresAt:       s.ExpiresAt,
		version:         s.Version,
		guard:           guard.NewConstructorGuard(),
	}

	pickupCode, pickupErr := NewConfirmationCode(s.PickupCode)
	deliveryCode, deliveryErr := NewConfirmationCode(s.DeliveryCode)
	p.pickupCode, p.deliveryCode = pickupCode, deliveryCode

	if err := errors.Join(
		p.setID(s.ID),
		validateTrackingCode(s.TrackingCode),
		p.setSpec(s.Spec),
		p.setQuotedPrice(s.QuotedPrice),
		s.PaymentStatus.Validate(),
		s.Status.Validate(),
		pickupErr,
		deliveryErr,
	); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parcel) Validate() error {
	if p == nil {
		return ErrParcelIsNotConstructed
	}
	return p.guard.Validate(ErrParcelIsNotConstructed)
}

func (p *Parcel) ID() kernel.UUID                  { return p.id }
func (p *Parcel) TrackingCode() string             { return p.trackingCode }
func (p *Parcel) SenderID() kernel.UUID            { return p.spec.SenderID }
func (p *Parcel) RecipientName() string            { return p.spec.RecipientName }
func (p *Parcel) RecipientPhone() string           { return p.spec.RecipientPhone }
func (p *Parcel) Mode() DeliveryMode               { return p.spec.Mode }
func (p *Parcel) OriginRelayID() *kernel.UUID      { return p.spec.OriginRelayID }
func (p *Parcel) DestinationRelayID() *kernel.UUID { return p.spec.DestinationRelayID }
func (p *Parcel) OriginPoint() *kernel.GeoPoint    { return p.spec.OriginPoint }
func (p *Parcel) DeliveryPoint() *kernel.GeoPoint  { return p.spec.DeliveryPoint }
func (p *Parcel) WeightKg() float64                { return p.spec.WeightKg }
func (p *Parcel) DeclaredValue() decimal.Decimal   { return p.spec.DeclaredValue }
func (p *Parcel) Insured() bool                    { return p.spec.Insured }
func (p *Parcel) Express() bool                    { return p.spec.Express }
func (p *Parcel) QuotedPrice() decimal.Decimal     { return p.quotedPrice }
func (p *Parcel) PaidPrice() *decimal.Decimal      { return p.paidPrice }
func (p *Parcel) PaymentStatus() PaymentStatus     { return p.paymentStatus }
func (p *Parcel) PaymentRef() string               { return p.paymentRef }
func (p *Parcel) PickupCode() ConfirmationCode     { return p.pickupCode }
func (p *Parcel) DeliveryCode() ConfirmationCode   { return p.deliveryCode }
func (p *Parcel) Status() Status                   { return p.status }
func (p *Parcel) CourierID() *kernel.UUID          { return p.courierID }
func (p *Parcel) RedirectRelayID() *kernel.UUID    { return p.redirectRelayID }
func (p *Parcel) CreatedAt() time.Time             { return p.createdAt }
func (p *Parcel) UpdatedAt() time.Time             { return p.updatedAt }
func (p *Parcel) ExpiresAt() time.Time             { return p.expiresAt }
func (p *Parcel) Version() int64                   { return p.version }

// SyncVersion is called by the persistence adapter after a successful
// conditional write.
func (p *Parcel) SyncVersion(v int64) {
	p.version = v
}

// IsPaid reports whether payment has been received.
func (p *Parcel) IsPaid() bool {
	return p.paymentStatus == PaymentPaid
}

// SettledPrice is the amount revenue is split on: the paid price when payment
// was received, the quote otherwise.
func (p *Parcel) SettledPrice() decimal.Decimal {
	if p.paidPrice != nil {
		return *p.paidPrice
	}
	return p.quotedPrice
}

// EffectiveDestinationRelayID is the redirect relay when one was assigned,
// otherwise the destination relay.
func (p *Parcel) EffectiveDestinationRelayID() *kernel.UUID {
	if p.redirectRelayID != nil {
		return p.redirectRelayID
	}
	return p.spec.DestinationRelayID
}

// TransitionTo moves the parcel to target on behalf of role and returns the
// previous status. The graph is checked first, then the role, then payment
// for DELIVERED.
func (p *Parcel) TransitionTo(target Status, role ActorRole, now time.Time) (Status, error) {
	if err := target.Validate(); err != nil {
		return StatusUnknown, err
	}
	if !p.status.CanTransitionTo(target) {
		return StatusUnknown, errs.NewIllegalTransitionError(p.status, target)
	}
	if !role.CanRequest(target) {
		return StatusUnknown, errs.NewNotPermittedError(role, "move parcel to "+target.String())
	}
	if target == Delivered && !p.IsPaid() {
		return StatusUnknown, errs.NewPaymentPendingError(p.id.String())
	}

	from := p.status
	p.status = target
	p.updatedAt = now
	return from, nil
}

// AssignCourier mirrors a mission assignment onto the parcel.
func (p *Parcel) AssignCourier(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if p.status.IsTerminal() {
		return errs.NewIllegalStateError("parcel", p.status, "assign courier to")
	}
	p.courierID = &courierID
	p.updatedAt = now
	return nil
}

func (p *Parcel) ClearCourier(now time.Time) {
	p.courierID = nil
	p.updatedAt = now
}

// RedirectTo records the relay a failed home delivery is diverted to.
func (p *Parcel) RedirectTo(relayID kernel.UUID, now time.Time) error {
	if err := relayID.Validate(); err != nil {
		return err
	}
	p.redirectRelayID = &relayID
	p.updatedAt = now
	return nil
}

// MarkPaid fixes the price. A parcel can be paid only once.
func (p *Parcel) MarkPaid(amount decimal.Decimal, ref string, now time.Time) error {
	if p.paymentStatus == PaymentPaid {
		return errs.NewIllegalStateError("parcel", p.paymentStatus, "mark paid")
	}
	if !amount.IsPositive() {
		return errs.NewValueIsOutOfRangeError("amount", amount, "> 0", "-")
	}
	paid := amount
	p.paidPrice = &paid
	p.paymentStatus = PaymentPaid
	p.paymentRef = ref
	p.updatedAt = now
	return nil
}

// MarkPaymentFailed records a failed attempt; a later success is still accepted.
func (p *Parcel) MarkPaymentFailed(ref string, now time.Time) error {
	if p.paymentStatus == PaymentPaid {
		return errs.NewIllegalStateError("parcel", p.paymentStatus, "mark payment failed for")
	}
	p.paymentStatus = PaymentFailed
	p.paymentRef = ref
	p.updatedAt = now
	return nil
}

func (p *Parcel) VerifyPickupCode(presented string) error {
	if !p.pickupCode.Matches(presented) {
		return errs.NewInvalidCodeError("pickup")
	}
	return nil
}

func (p *Parcel) VerifyDeliveryCode(presented string) error {
	if !p.deliveryCode.Matches(presented) {
		return errs.NewInvalidCodeError("delivery")
	}
	return nil
}

func (p *Parcel) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Parcel) setQuotedPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsOutOfRangeError("quoted_price", price, 0, "-")
	}
	p.quotedPrice = price
	return nil
}

func (p *Parcel) setSpec(s Spec) error {
	s.RecipientName = strings.TrimSpace(s.RecipientName)
	s.RecipientPhone = strings.TrimSpace(s.RecipientPhone)

	var problems []error
	if err := s.SenderID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("sender_id", err))
	}
	if s.RecipientName == "" {
		problems = append(problems, errs.NewValueIsRequiredError("recipient_name"))
	}
	if s.RecipientPhone == "" {
		problems = append(problems, errs.NewValueIsRequiredError("recipient_phone"))
	}
	if s.WeightKg <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("weight_kg", s.WeightKg, "> 0", "-"))
	}
	if s.DeclaredValue.IsNegative() {
		problems = append(problems, errs.NewValueIsOutOfRangeError("declared_value", s.DeclaredValue, 0, "-"))
	}
	if err := s.Mode.Validate(); err != nil {
		problems = append(problems, err)
	} else {
		problems = append(problems, validateEndpoints(s))
	}

	if err := errors.Join(problems...); err != nil {
		return err
	}
	p.spec = s
	return nil
}

// validateEndpoints checks that each end of the route is described the way the
// mode requires: a relay for relay ends, a GPS point for home ends.
func validateEndpoints(s Spec) error {
	var problems []error
	if s.Mode.PicksUpAtHome() {
		if s.OriginPoint == nil {
			problems = append(problems, errs.NewValueIsRequiredErrorWithCause("origin_point",
				fmt.Errorf("%s picks up at the sender's address", s.Mode)))
		}
	} else if s.OriginRelayID == nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("origin_relay_id",
			fmt.Errorf("%s starts at a relay", s.Mode)))
	}

	if s.Mode.DeliversToHome() {
		if s.DeliveryPoint == nil {
			problems = append(problems, errs.NewValueIsRequiredErrorWithCause("delivery_point",
				fmt.Errorf("%s ends at the recipient's address", s.Mode)))
		}
	} else if s.DestinationRelayID == nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("destination_relay_id",
			fmt.Errorf("%s ends at a relay", s.Mode)))
	}
	return errors.Join(problems...)
}
