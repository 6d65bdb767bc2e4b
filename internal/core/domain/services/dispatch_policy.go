package services

import "time"

// DispatchPolicy holds the timing and distance constants of mission dispatch.
type DispatchPolicy struct {
	OfferWindow          time.Duration
	StuckTimeout         time.Duration
	EtaRefresh           time.Duration
	ApproachRadiusMeters float64
	GeofenceMeters       float64
	TrailCapacity        int
}

func DefaultDispatchPolicy() DispatchPolicy {
	return DispatchPolicy{
		OfferWindow:          30 * time.Second,
		StuckTimeout:         15 * time.Minute,
		EtaRefresh:           5 * time.Minute,
		ApproachRadiusMeters: 500,
		GeofenceMeters:       500,
		TrailCapacity:        300,
	}
}
