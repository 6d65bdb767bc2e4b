package mission

import (
	"fmt"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/errs"
)

// Leg tells what completing the mission means for the parcel.
type Leg int

const (
	LegUnknown Leg = iota
	// LegDelivery ends with the parcel handed over at its final stop.
	LegDelivery
	// LegTransit moves a relay-to-relay parcel from origin to destination relay.
	LegTransit
)

var legNames = map[Leg]string{
	LegDelivery: "delivery",
	LegTransit:  "transit",
}

func (l Leg) String() string {
	if name, ok := legNames[l]; ok {
		return name
	}
	return "unknown"
}

func (l Leg) Validate() error {
	if _, ok := legNames[l]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("leg", fmt.Errorf("%d is not a valid leg", l))
	}
	return nil
}

type PlaceKind int

const (
	PlaceUnknown PlaceKind = iota
	PlaceRelay
	PlaceGPS
)

func (k PlaceKind) String() string {
	switch k {
	case PlaceRelay:
		return "relay"
	case PlaceGPS:
		return "gps"
	case PlaceUnknown:
		return "unknown"
	}
	return "unknown"
}

// Place describes a pickup or delivery stop. Relay stops carry the relay ID and
// its coordinates when known; GPS stops always carry a point.
type Place struct {
	Kind    PlaceKind
	RelayID *kernel.UUID
	Label   string
	City    string
	Point   *kernel.GeoPoint
}

func NewRelayPlace(relayID kernel.UUID, label, city string, point *kernel.GeoPoint) (Place, error) {
	if err := relayID.Validate(); err != nil {
		return Place{}, err
	}
	return Place{Kind: PlaceRelay, RelayID: &relayID, Label: label, City: city, Point: point}, nil
}

func NewGPSPlace(point kernel.GeoPoint, label, city string) (Place, error) {
	if err := point.Validate(); err != nil {
		return Place{}, err
	}
	return Place{Kind: PlaceGPS, Label: label, City: city, Point: &point}, nil
}

func (p Place) Validate() error {
	switch p.Kind {
	case PlaceRelay:
		if p.RelayID == nil {
			return errs.NewValueIsRequiredError("relay_id")
		}
		return nil
	case PlaceGPS:
		if p.Point == nil {
			return errs.NewValueIsRequiredError("point")
		}
		return nil
	case PlaceUnknown:
	}
	return errs.NewValueIsInvalidError("place kind")
}

// HasCoordinates reports whether distance to the place can be computed.
func (p Place) HasCoordinates() bool {
	return p.Point != nil
}
