package services

import (
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/pkg/errs"
)

// ProofValidator checks the evidence a courier presents at each end of a mission.
type ProofValidator struct {
	geofenceMeters float64
}

func NewProofValidator(geofenceMeters float64) ProofValidator {
	return ProofValidator{geofenceMeters: geofenceMeters}
}

// CheckGeofence fails with OutOfRangeError when position is farther than the
// geofence from target. A missing position or target skips the check.
func (v ProofValidator) CheckGeofence(position, target *kernel.GeoPoint) error {
	if position == nil || target == nil {
		return nil
	}
	d, err := position.DistanceMeters(*target)
	if err != nil {
		return err
	}
	if d > v.geofenceMeters {
		return errs.NewOutOfRangeError(d, v.geofenceMeters)
	}
	return nil
}

// ValidatePickup checks the code the sender or origin relay hands over.
func (v ProofValidator) ValidatePickup(p *parcel.Parcel, code string) error {
	return p.VerifyPickupCode(code)
}

// ValidateDelivery checks a delivery proof in order: payment, code, geofence.
// A transit leg ends at a relay, not with the recipient, so only the geofence
// applies.
func (v ProofValidator) ValidateDelivery(p *parcel.Parcel, m *mission.Mission, code string, position *kernel.GeoPoint) error {
	if m.Leg() == mission.LegDelivery {
		if !p.IsPaid() {
			return errs.NewPaymentPendingError(p.ID().String())
		}
		if err := p.VerifyDeliveryCode(code); err != nil {
			return err
		}
	}
	return v.CheckGeofence(position, m.Delivery().Point)
}
