// Package pricingrepo persists the admin-managed tariff rules and zones and
// reads the supply/demand counters used by dynamic pricing.
package pricingrepo

import (
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type RuleDTO struct {
	ID                uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Name              string              `gorm:"type:varchar(255);not null"`
	Mode              string              `gorm:"size:16;not null;index"`
	OriginZoneID      *uuid.UUID          `gorm:"type:uuid"`
	DestinationZoneID *uuid.UUID          `gorm:"type:uuid"`
	BasePrice         decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	PerKm             decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	PerKg             decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	InsuranceRate     decimal.Decimal     `gorm:"type:numeric(6,4);not null"`
	MinPrice          decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	MaxPrice          decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	Active            bool                `gorm:"not null"`
}

func (RuleDTO) TableName() string {
	return "pricing_rules"
}

type ZoneDTO struct {
	ID       uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Name     string                      `gorm:"type:varchar(255);not null"`
	RelayIDs datatypes.JSONSlice[string] `gorm:"column:relay_ids"`
	Active   bool                        `gorm:"not null"`
}

func (ZoneDTO) TableName() string {
	return "pricing_zones"
}

func ruleFromDomain(r *pricing.Rule) RuleDTO {
	dto := RuleDTO{
		ID:                r.ID.Bytes(),
		Name:              r.Name,
		Mode:              r.Mode.String(),
		OriginZoneID:      kernel.OptionalToGoogle(r.OriginZoneID),
		DestinationZoneID: kernel.OptionalToGoogle(r.DestinationZoneID),
		BasePrice:         r.BasePrice,
		PerKm:             r.PerKm,
		PerKg:             r.PerKg,
		InsuranceRate:     r.InsuranceRate,
		MinPrice:          r.MinPrice,
		Active:            r.Active,
	}
	if r.MaxPrice != nil {
		dto.MaxPrice = decimal.NewNullDecimal(*r.MaxPrice)
	}
	return dto
}

func ruleToDomain(dto RuleDTO) (*pricing.Rule, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	mode, err := parcel.ParseDeliveryMode(dto.Mode)
	if err != nil {
		return nil, err
	}
	origin, err := kernel.OptionalUUIDFromGoogle(dto.OriginZoneID)
	if err != nil {
		return nil, err
	}
	destination, err := kernel.OptionalUUIDFromGoogle(dto.DestinationZoneID)
	if err != nil {
		return nil, err
	}

	r := &pricing.Rule{
		ID:                id,
		Name:              dto.Name,
		Mode:              mode,
		OriginZoneID:      origin,
		DestinationZoneID: destination,
		BasePrice:         dto.BasePrice,
		PerKm:             dto.PerKm,
		PerKg:             dto.PerKg,
		InsuranceRate:     dto.InsuranceRate,
		MinPrice:          dto.MinPrice,
		Active:            dto.Active,
	}
	if dto.MaxPrice.Valid {
		maxPrice := dto.MaxPrice.Decimal
		r.MaxPrice = &maxPrice
	}
	return r, nil
}

func zoneFromDomain(z *pricing.Zone) ZoneDTO {
	ids := make([]string, 0, len(z.RelayIDs))
	for _, id := range z.RelayIDs {
		ids = append(ids, id.String())
	}
	return ZoneDTO{ID: z.ID.Bytes(), Name: z.Name, RelayIDs: ids, Active: z.Active}
}

func zoneToDomain(dto ZoneDTO) (*pricing.Zone, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	relayIDs := make([]kernel.UUID, 0, len(dto.RelayIDs))
	for _, raw := range dto.RelayIDs {
		relayID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return nil, err
		}
		relayIDs = append(relayIDs, relayID)
	}
	return pricing.NewZone(id, dto.Name, relayIDs, dto.Active)
}
