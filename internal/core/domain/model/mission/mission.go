package mission

import (
	"errors"
	"slices"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrMissionIsNotConstructed = errors.New("Mission must be created via NewMission or RestoreMission")

// Snapshot is the full persisted state of a mission, used by RestoreMission.
type Snapshot struct {
	ID               kernel.UUID
	ParcelID         kernel.UUID
	Leg              Leg
	Pickup           Place
	Delivery         Place
	CourierID        *kernel.UUID
	Status           Status
	Cascade          Cascade
	Earnings         decimal.Decimal
	LastLocation     *kernel.GeoPoint
	LastLocationAt   *time.Time
	Trail            []TrailPoint
	EtaSeconds       *int
	EtaRefreshedAt   *time.Time
	ApproachNotified bool
	AssignedAt       *time.Time
	StartedAt        *time.Time
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int64
}

// Mission is one courier job moving a parcel between two places.
type Mission struct {
	id               kernel.UUID
	parcelID         kernel.UUID
	leg              Leg
	pickup           Place
	delivery         Place
	courierID        *kernel.UUID
	status           Status
	cascade          Cascade
	earnings         decimal.Decimal
	lastLocation     *kernel.GeoPoint
	lastLocationAt   *time.Time
	trail            []TrailPoint
	etaSeconds       *int
	etaRefreshedAt   *time.Time
	approachNotified bool
	assignedAt       *time.Time
	startedAt        *time.Time
	completedAt      *time.Time
	createdAt        time.Time
	updatedAt        time.Time
	version          int64
	guard            guard.ConstructorGuard
}

func NewMission(
	parcelID kernel.UUID,
	leg Leg,
	pickup, delivery Place,
	earnings decimal.Decimal,
	now time.Time,
) (*Mission, error) {
	m := &Mission{
		id:        kernel.NewUUID(),
		status:    Pending,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		m.setParcelID(parcelID),
		m.setLeg(leg),
		m.setPlaces(pickup, delivery),
		m.setEarnings(earnings),
	); err != nil {
		return nil, err
	}
	return m, nil
}

func RestoreMission(s Snapshot) (*Mission, error) {
	m := &Mission{
		id:               s.ID,
		courierID:        s.CourierID,
		status:           s.Status,
		cascade:          s.Cascade.clone(),
		lastLocation:     s.LastLocation,
		lastLocationAt:   s.LastLocationAt,
		trail:            slices.Clone(s.Trail),
		etaSeconds:       s.EtaSeconds,
		etaRefreshedAt:   s.EtaRefreshedAt,
		approachNotified: s.ApproachNotified,
		assignedAt:       s.AssignedAt,
		startedAt:        s.StartedAt,
		completedAt:      s.CompletedAt,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
		version:          s.Version,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.ID.Validate(),
		m.setParcelID(s.ParcelID),
		m.setLeg(s.Leg),
		m.setPlaces(s.Pickup, s.Delivery),
		m.setEarnings(s.Earnings),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if s.Status.HoldsCourier() && s.CourierID == nil {
		return nil, errs.NewValueIsRequiredError("courier_id")
	}
	return m, nil
}

func (m *Mission) Validate() error {
	if m == nil {
		return ErrMissionIsNotConstructed
	}
	return m.guard.Validate(ErrMissionIsNotConstructed)
}

func (m *Mission) ID() kernel.UUID                { return m.id }
func (m *Mission) ParcelID() kernel.UUID          { return m.parcelID }
func (m *Mission) Leg() Leg                       { return m.leg }
func (m *Mission) Pickup() Place                  { return m.pickup }
func (m *Mission) Delivery() Place                { return m.delivery }
func (m *Mission) CourierID() *kernel.UUID        { return m.courierID }
func (m *Mission) Status() Status                 { return m.status }
func (m *Mission) Cascade() Cascade               { return m.cascade.clone() }
func (m *Mission) Earnings() decimal.Decimal      { return m.earnings }
func (m *Mission) LastLocation() *kernel.GeoPoint { return m.lastLocation }
func (m *Mission) LastLocationAt() *time.Time     { return m.lastLocationAt }
func (m *Mission) Trail() []TrailPoint            { return slices.Clone(m.trail) }
func (m *Mission) EtaSeconds() *int               { return m.etaSeconds }
func (m *Mission) EtaRefreshedAt() *time.Time     { return m.etaRefreshedAt }
func (m *Mission) ApproachNotified() bool         { return m.approachNotified }
func (m *Mission) AssignedAt() *time.Time         { return m.assignedAt }
func (m *Mission) StartedAt() *time.Time          { return m.startedAt }
func (m *Mission) CompletedAt() *time.Time        { return m.completedAt }
func (m *Mission) CreatedAt() time.Time           { return m.createdAt }
func (m *Mission) UpdatedAt() time.Time           { return m.updatedAt }
func (m *Mission) Version() int64                 { return m.version }

// SyncVersion is called by the persistence adapter after a conditional write.
func (m *Mission) SyncVersion(v int64) {
	m.version = v
}

func (m *Mission) IsAssignedTo(id kernel.UUID) bool {
	return id.IsEqualOptional(m.courierID)
}

// StartCascade offers the mission to the first candidate for window. With no
// candidates the mission goes straight to broadcast. It returns the courier
// holding the offer, nil when broadcasting.
func (m *Mission) StartCascade(candidates []kernel.UUID, window time.Duration, now time.Time) (*kernel.UUID, error) {
	if m.status != Pending {
		return nil, errs.NewIllegalStateError("mission", m.status, "start offer cascade for")
	}
	m.cascade = Cascade{Candidates: slices.Clone(candidates)}
	if len(candidates) == 0 {
		m.cascade.Broadcast = true
	} else {
		expires := now.Add(window)
		m.cascade.OfferExpiresAt = &expires
	}
	m.updatedAt = now
	return m.cascade.Offeree(), nil
}

// AdvanceOffer moves an expired exclusive offer to the next candidate, or to
// broadcast once the list is exhausted. It returns the new offeree (nil when
// broadcasting) and whether the call changed anything. A mission that is no
// longer pending, already broadcast, or whose offer has not yet expired is
// left alone.
func (m *Mission) AdvanceOffer(window time.Duration, now time.Time) (*kernel.UUID, bool) {
	if m.status != Pending || !m.cascade.IsExpired(now) {
		return nil, false
	}
	m.cascade.Index++
	if m.cascade.Index >= len(m.cascade.Candidates) {
		m.cascade.Broadcast = true
		m.cascade.OfferExpiresAt = nil
	} else {
		expires := now.Add(window)
		m.cascade.OfferExpiresAt = &expires
	}
	m.updatedAt = now
	return m.cascade.Offeree(), true
}

// IsVisibleTo reports whether courierID may see and accept the mission.
func (m *Mission) IsVisibleTo(courierID kernel.UUID) bool {
	if m.status != Pending {
		return false
	}
	if m.cascade.Broadcast {
		return true
	}
	return courierID.IsEqualOptional(m.cascade.Offeree())
}

// Accept binds the mission to courierID. Only a pending mission can be
// accepted; while an exclusive offer runs, only its holder may take it.
func (m *Mission) Accept(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if m.status != Pending {
		return errs.NewAlreadyAssignedError(m.id.String())
	}
	if offeree := m.cascade.Offeree(); offeree != nil && !offeree.IsEqual(courierID) {
		return errs.NewIllegalStateError("mission", m.status, "accept an offer held by another courier on")
	}
	m.bind(courierID, now)
	return nil
}

// Release hands an assigned mission back to the pool. Once the parcel has been
// picked up the mission can no longer be released.
func (m *Mission) Release(now time.Time) error {
	if m.status != Assigned {
		return errs.NewIllegalStateError("mission", m.status, "release")
	}
	m.status = Pending
	m.courierID = nil
	m.assignedAt = nil
	m.cascade = Cascade{}
	m.updatedAt = now
	return nil
}

// ConfirmPickup starts the mission for its assigned courier.
func (m *Mission) ConfirmPickup(courierID kernel.UUID, now time.Time) error {
	if m.status != Assigned {
		return errs.NewIllegalStateError("mission", m.status, "confirm pickup for")
	}
	if !m.IsAssignedTo(courierID) {
		return errs.NewNotPermittedError(courierRole, "confirm pickup for another courier's mission")
	}
	m.status = InProgress
	m.startedAt = &now
	m.updatedAt = now
	return nil
}

func (m *Mission) Complete(now time.Time) error {
	if m.status != InProgress {
		return errs.NewIllegalStateError("mission", m.status, "complete")
	}
	m.status = Completed
	m.completedAt = &now
	m.updatedAt = now
	return nil
}

func (m *Mission) Fail(now time.Time) error {
	if !m.status.HoldsCourier() {
		return errs.NewIllegalStateError("mission", m.status, "fail")
	}
	m.status = Failed
	m.completedAt = &now
	m.updatedAt = now
	return nil
}

func (m *Mission) Cancel(now time.Time) error {
	if m.status != Pending && m.status != Assigned {
		return errs.NewIllegalStateError("mission", m.status, "cancel")
	}
	m.status = Cancelled
	m.cascade.OfferExpiresAt = nil
	m.updatedAt = now
	return nil
}

// Reassign forces a non-terminal mission onto courierID. The new courier
// starts from the assigned state and must confirm pickup again.
func (m *Mission) Reassign(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if !m.status.IsActive() {
		return errs.NewIllegalStateError("mission", m.status, "reassign")
	}
	m.startedAt = nil
	m.bind(courierID, now)
	return nil
}

// IsStuck reports whether the mission was accepted more than timeout ago and
// never picked up.
func (m *Mission) IsStuck(now time.Time, timeout time.Duration) bool {
	return m.status == Assigned &&
		m.startedAt == nil &&
		m.assignedAt != nil &&
		m.assignedAt.Before(now.Add(-timeout))
}

// RecordLocation stores the courier's position and appends it to the bounded trail.
func (m *Mission) RecordLocation(point kernel.GeoPoint, now time.Time, trailCapacity int) error {
	if !m.status.HoldsCourier() {
		return errs.NewIllegalStateError("mission", m.status, "record location for")
	}
	if err := point.Validate(); err != nil {
		return err
	}
	m.lastLocation = &point
	m.lastLocationAt = &now
	m.trail = appendBounded(m.trail, TrailPoint{Point: point, At: now}, trailCapacity)
	m.updatedAt = now
	return nil
}

// NeedsEtaRefresh reports whether the ETA is missing or older than cadence.
func (m *Mission) NeedsEtaRefresh(now time.Time, cadence time.Duration) bool {
	return m.etaRefreshedAt == nil || now.Sub(*m.etaRefreshedAt) >= cadence
}

func (m *Mission) SetEta(seconds int, now time.Time) {
	m.etaSeconds = &seconds
	m.etaRefreshedAt = &now
	m.updatedAt = now
}

// DistanceToDeliveryMeters is the distance between point and the delivery
// place. ok is false when the delivery place has no coordinates.
func (m *Mission) DistanceToDeliveryMeters(point kernel.GeoPoint) (float64, bool) {
	if !m.delivery.HasCoordinates() {
		return 0, false
	}
	d, err := point.DistanceMeters(*m.delivery.Point)
	if err != nil {
		return 0, false
	}
	return d, true
}

// MarkApproaching flips the one-time approach flag. It returns true only for
// the first in-progress call within radius.
func (m *Mission) MarkApproaching(distanceMeters, radiusMeters float64) bool {
	if m.status != InProgress || m.approachNotified || distanceMeters > radiusMeters {
		return false
	}
	m.approachNotified = true
	return true
}

func (m *Mission) bind(courierID kernel.UUID, now time.Time) {
	m.courierID = &courierID
	m.status = Assigned
	m.assignedAt = &now
	m.cascade.OfferExpiresAt = nil
	m.updatedAt = now
}

func (m *Mission) setParcelID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("parcel_id", err)
	}
	m.parcelID = id
	return nil
}

func (m *Mission) setLeg(leg Leg) error {
	if err := leg.Validate(); err != nil {
		return err
	}
	m.leg = leg
	return nil
}

func (m *Mission) setPlaces(pickup, delivery Place) error {
	if err := errors.Join(pickup.Validate(), delivery.Validate()); err != nil {
		return err
	}
	m.pickup, m.delivery = pickup, delivery
	return nil
}

func (m *Mission) setEarnings(earnings decimal.Decimal) error {
	if earnings.IsNegative() {
		return errs.NewValueIsOutOfRangeError("earnings", earnings, 0, "-")
	}
	m.earnings = earnings
	return nil
}
