// Package parcelrepo persists parcel aggregates. Enum fields are stored by
// name so the table stays readable from SQL.
package parcelrepo

import (
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParcelDTO represents the database structure for persisting parcel aggregates.
type ParcelDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingCode       string     `gorm:"size:16;uniqueIndex"`
	SenderID           uuid.UUID  `gorm:"type:uuid;index"`
	RecipientName      string     `gorm:"size:128"`
	RecipientPhone     string     `gorm:"size:32"`
	Mode               string     `gorm:"size:32"`
	OriginRelayID      *uuid.UUID `gorm:"type:uuid"`
	DestinationRelayID *uuid.UUID `gorm:"type:uuid"`
	Origin             PointDTO   `gorm:"embedded;embeddedPrefix:origin_"`
	Delivery           PointDTO   `gorm:"embedded;embeddedPrefix:delivery_"`
	WeightKg           float64
	DeclaredValue      decimal.Decimal `gorm:"type:numeric(14,2)"`
	Insured            bool
	Express            bool
	QuotedPrice        decimal.Decimal     `gorm:"type:numeric(14,2)"`
	PaidPrice          decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	PaymentStatus      string              `gorm:"size:16"`
	PaymentRef         string              `gorm:"size:128;index"`
	PickupCode         string              `gorm:"size:6"`
	DeliveryCode       string              `gorm:"size:6"`
	Status             string              `gorm:"size:32;index"`
	CourierID          *uuid.UUID          `gorm:"type:uuid"`
	RedirectRelayID    *uuid.UUID          `gorm:"type:uuid"`
	CreatedAt          time.Time           `gorm:"autoCreateTime:false"`
	UpdatedAt          time.Time           `gorm:"autoUpdateTime:false"`
	ExpiresAt          time.Time
	Version            int64
}

// TableName specifies the database table name for parcel entities.
func (ParcelDTO) TableName() string {
	return "parcels"
}

// PointDTO is an optional GPS point embedded in a row.
type PointDTO struct {
	Lat *float64
	Lng *float64
}

func pointFromDomain(p *kernel.GeoPoint) PointDTO {
	if p == nil {
		return PointDTO{}
	}
	lat, lng := p.Lat(), p.Lng()
	return PointDTO{Lat: &lat, Lng: &lng}
}

func fromDomain(p *parcel.Parcel) ParcelDTO {
	dto := ParcelDTO{
		ID:                 p.ID().Bytes(),
		TrackingCode:       p.TrackingCode(),
		SenderID:           p.SenderID().Bytes(),
		RecipientName:      p.RecipientName(),
		RecipientPhone:     p.RecipientPhone(),
		Mode:               p.Mode().String(),
		OriginRelayID:      kernel.OptionalToGoogle(p.OriginRelayID()),
		DestinationRelayID: kernel.OptionalToGoogle(p.DestinationRelayID()),
		Origin:             pointFromDomain(p.OriginPoint()),
		Delivery:           pointFromDomain(p.DeliveryPoint()),
		WeightKg:           p.WeightKg(),
		DeclaredValue:      p.DeclaredValue(),
		Insured:            p.Insured(),
		Express:            p.Express(),
		QuotedPrice:        p.QuotedPrice(),
		PaymentStatus:      p.PaymentStatus().String(),
		PaymentRef:         p.PaymentRef(),
		PickupCode:         p.PickupCode().Value(),
		DeliveryCode:       p.DeliveryCode().Value(),
		Status:             p.Status().String(),
		CourierID:          kernel.OptionalToGoogle(p.CourierID()),
		RedirectRelayID:    kernel.OptionalToGoogle(p.RedirectRelayID()),
		CreatedAt:          p.CreatedAt(),
		UpdatedAt:          p.UpdatedAt(),
		ExpiresAt:          p.ExpiresAt(),
		Version:            p.Version(),
	}
	if paid := p.PaidPrice(); paid != nil {
		dto.PaidPrice = decimal.NewNullDecimal(*paid)
	}
	return dto
}

func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	senderID, err := kernel.UUIDFromGoogle(dto.SenderID)
	if err != nil {
		return nil, err
	}
	mode, err := parcel.ParseDeliveryMode(dto.Mode)
	if err != nil {
		return nil, err
	}
	status, err := parcel.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := parcel.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}
	origin, err := kernel.OptionalGeoPoint(dto.Origin.Lat, dto.Origin.Lng)
	if err != nil {
		return nil, err
	}
	delivery, err := kernel.OptionalGeoPoint(dto.Delivery.Lat, dto.Delivery.Lng)
	if err != nil {
		return nil, err
	}

	ids := make([]*kernel.UUID, 4)
	for i, raw := range []*uuid.UUID{dto.OriginRelayID, dto.DestinationRelayID, dto.CourierID, dto.RedirectRelayID} {
		if ids[i], err = kernel.OptionalUUIDFromGoogle(raw); err != nil {
			return nil, err
		}
	}

	var paid *decimal.Decimal
	if dto.PaidPrice.Valid {
		v := dto.PaidPrice.Decimal
		paid = &v
	}

	return parcel.RestoreParcel(parcel.Snapshot{
		ID:           id,
		TrackingCode: dto.TrackingCode,
		Spec: parcel.Spec{
			SenderID:           senderID,
			RecipientName:      dto.RecipientName,
			RecipientPhone:     dto.RecipientPhone,
			Mode:               mode,
			OriginRelayID:      ids[0],
			DestinationRelayID: ids[1],
			OriginPoint:        origin,
			DeliveryPoint:      delivery,
			WeightKg:           dto.WeightKg,
			DeclaredValue:      dto.DeclaredValue,
			Insured:            dto.Insured,
			Express:            dto.Express,
		},
		QuotedPrice:     dto.QuotedPrice,
		PaidPrice:       paid,
		PaymentStatus:   paymentStatus,
		PaymentRef:      dto.PaymentRef,
		PickupCode:      dto.PickupCode,
		DeliveryCode:    dto.DeliveryCode,
		Status:          status,
		CourierID:       ids[2],
		RedirectRelayID: ids[3],
		CreatedAt:       dto.CreatedAt.UTC(),
		UpdatedAt:       dto.UpdatedAt.UTC(),
		ExpiresAt:       dto.ExpiresAt.UTC(),
		Version:         dto.Version,
	})
}
