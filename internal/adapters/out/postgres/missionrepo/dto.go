// Package missionrepo persists delivery missions, their offer cascade and
// their courier trail.
package missionrepo

import (
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/mission"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// MissionDTO represents the database structure for persisting missions.
// OfferedTo duplicates the current exclusive offeree so that the available
// missions query can filter on it.
type MissionDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ParcelID         uuid.UUID  `gorm:"type:uuid;index"`
	Leg              string     `gorm:"size:16"`
	Pickup           PlaceDTO   `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery         PlaceDTO   `gorm:"embedded;embeddedPrefix:delivery_"`
	CourierID        *uuid.UUID `gorm:"type:uuid;index"`
	Status           string     `gorm:"size:16;index"`
	Candidates       datatypes.JSONSlice[string]
	OfferIndex       int
	OfferExpiresAt   *time.Time
	OfferedTo        *uuid.UUID `gorm:"type:uuid;index"`
	Broadcast        bool
	Earnings         decimal.Decimal `gorm:"type:numeric(14,2)"`
	LastLat          *float64
	LastLng          *float64
	LastLocationAt   *time.Time
	Trail            datatypes.JSONSlice[TrailPointDTO]
	EtaSeconds       *int
	EtaRefreshedAt   *time.Time
	ApproachNotified bool
	AssignedAt       *time.Time
	StartedAt        *time.Time
	CompletedAt      *time.Time
	CreatedAt        time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime:false"`
	Version          int64
}

func (MissionDTO) TableName() string {
	return "delivery_missions"
}

// PlaceDTO is a pickup or delivery place embedded in the mission row.
type PlaceDTO struct {
	Kind    string     `gorm:"size:8"`
	RelayID *uuid.UUID `gorm:"type:uuid"`
	Label   string
	City    string
	Lat     *float64
	Lng     *float64
}

// TrailPointDTO is one trail entry in the JSON trail column.
type TrailPointDTO struct {
	Lat float64   `json:"lat"`
	Lng float64   `json:"lng"`
	At  time.Time `json:"at"`
}

func placeFromDomain(p mission.Place) PlaceDTO {
	dto := PlaceDTO{
		Kind:    p.Kind.String(),
		RelayID: kernel.OptionalToGoogle(p.RelayID),
		Label:   p.Label,
		City:    p.City,
	}
	if p.Point != nil {
		lat, lng := p.Point.Lat(), p.Point.Lng()
		dto.Lat, dto.Lng = &lat, &lng
	}
	return dto
}

func placeToDomain(dto PlaceDTO) (mission.Place, error) {
	point, err := kernel.OptionalGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return mission.Place{}, err
	}
	relayID, err := kernel.OptionalUUIDFromGoogle(dto.RelayID)
	if err != nil {
		return mission.Place{}, err
	}
	kind := mission.PlaceUnknown
	switch dto.Kind {
	case mission.PlaceRelay.String():
		kind = mission.PlaceRelay
	case mission.PlaceGPS.String():
		kind = mission.PlaceGPS
	}
	return mission.Place{Kind: kind, RelayID: relayID, Label: dto.Label, City: dto.City, Point: point}, nil
}

func fromDomain(m *mission.Mission) MissionDTO {
	cascade := m.Cascade()
	candidates := make([]string, 0, len(cascade.Candidates))
	for _, id := range cascade.Candidates {
		candidates = append(candidates, id.String())
	}
	trail := make([]TrailPointDTO, 0, len(m.Trail()))
	for _, p := range m.Trail() {
		trail = append(trail, TrailPointDTO{Lat: p.Point.Lat(), Lng: p.Point.Lng(), At: p.At})
	}

	dto := MissionDTO{
		ID:               m.ID().Bytes(),
		ParcelID:         m.ParcelID().Bytes(),
		Leg:              m.Leg().String(),
		Pickup:           placeFromDomain(m.Pickup()),
		Delivery:         placeFromDomain(m.Delivery()),
		CourierID:        kernel.OptionalToGoogle(m.CourierID()),
		Status:           m.Status().String(),
		Candidates:       candidates,
		OfferIndex:       cascade.Index,
		OfferExpiresAt:   cascade.OfferExpiresAt,
		OfferedTo:        kernel.OptionalToGoogle(cascade.Offeree()),
		Broadcast:        cascade.Broadcast,
		Earnings:         m.Earnings(),
		LastLocationAt:   m.LastLocationAt(),
		Trail:            trail,
		EtaSeconds:       m.EtaSeconds(),
		EtaRefreshedAt:   m.EtaRefreshedAt(),
		ApproachNotified: m.ApproachNotified(),
		AssignedAt:       m.AssignedAt(),
		StartedAt:        m.StartedAt(),
		CompletedAt:      m.CompletedAt(),
		CreatedAt:        m.CreatedAt(),
		UpdatedAt:        m.UpdatedAt(),
		Version:          m.Version(),
	}
	if m.Status() != mission.Pending {
		dto.OfferedTo = nil
	}
	if last := m.LastLocation(); last != nil {
		lat, lng := last.Lat(), last.Lng()
		dto.LastLat, dto.LastLng = &lat, &lng
	}
	return dto
}

func toDomain(dto MissionDTO) (*mission.Mission, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	parcelID, err := kernel.UUIDFromGoogle(dto.ParcelID)
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.OptionalUUIDFromGoogle(dto.CourierID)
	if err != nil {
		return nil, err
	}
	status, err := mission.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	pickup, err := placeToDomain(dto.Pickup)
	if err != nil {
		return nil, err
	}
	delivery, err := placeToDomain(dto.Delivery)
	if err != nil {
		return nil, err
	}
	last, err := kernel.OptionalGeoPoint(dto.LastLat, dto.LastLng)
	if err != nil {
		return nil, err
	}

	candidates := make([]kernel.UUID, 0, len(dto.Candidates))
	for _, raw := range dto.Candidates {
		cid, err := kernel.UUIDFromString(raw)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, cid)
	}

	trail := make([]mission.TrailPoint, 0, len(dto.Trail))
	for _, p := range dto.Trail {
		point, err := kernel.NewGeoPoint(p.Lat, p.Lng)
		if err != nil {
			return nil, err
		}
		trail = append(trail, mission.TrailPoint{Point: point, At: p.At.UTC()})
	}

	leg := mission.LegUnknown
	switch dto.Leg {
	case mission.LegDelivery.String():
		leg = mission.LegDelivery
	case mission.LegTransit.String():
		leg = mission.LegTransit
	}

	return mission.RestoreMission(mission.Snapshot{
		ID:        id,
		ParcelID:  parcelID,
		Leg:       leg,
		Pickup:    pickup,
		Delivery:  delivery,
		CourierID: courierID,
		Status:    status,
		Cascade: mission.Cascade{
			Candidates:     candidates,
			Index:          dto.OfferIndex,
			OfferExpiresAt: utc(dto.OfferExpiresAt),
			Broadcast:      dto.Broadcast,
		},
		Earnings:         dto.Earnings,
		LastLocation:     last,
		LastLocationAt:   utc(dto.LastLocationAt),
		Trail:            trail,
		EtaSeconds:       dto.EtaSeconds,
		EtaRefreshedAt:   utc(dto.EtaRefreshedAt),
		ApproachNotified: dto.ApproachNotified,
		AssignedAt:       utc(dto.AssignedAt),
		StartedAt:        utc(dto.StartedAt),
		CompletedAt:      utc(dto.CompletedAt),
		CreatedAt:        dto.CreatedAt.UTC(),
		UpdatedAt:        dto.UpdatedAt.UTC(),
		Version:          dto.Version,
	})
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
