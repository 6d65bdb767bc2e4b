// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// It converts between the courier aggregate and its row in the couriers table.
package courierrepo

import (
	"time"

	"pickupoint/internal/core/domain/model/courier"
	"pickupoint/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// The position columns are nullable: a courier who never reported a fix has none.
type CourierDTO struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name       string      `gorm:"type:varchar(255);not null"`
	Phone      string      `gorm:"type:varchar(32);not null"`
	Available  bool        `gorm:"not null;index"`
	Position   PositionDTO `gorm:"embedded;embeddedPrefix:position_"`
	PositionAt *time.Time
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers" instead of "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// PositionDTO is the courier's last reported fix.
type PositionDTO struct {
	Lat *float64
	Lng *float64
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(c *courier.Courier) CourierDTO {
	dto := CourierDTO{
		ID:         c.ID().Bytes(),
		Name:       c.Name(),
		Phone:      c.Phone(),
		Available:  c.IsAvailable(),
		PositionAt: c.PositionAt(),
	}
	if p := c.Position(); p != nil {
		lat, lng := p.Lat(), p.Lng()
		dto.Position = PositionDTO{Lat: &lat, Lng: &lng}
	}
	return dto
}

// toDomain converts a database DTO to a courier domain aggregate using RestoreCourier.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	position, err := kernel.OptionalGeoPoint(dto.Position.Lat, dto.Position.Lng)
	if err != nil {
		return nil, err
	}

	var positionAt *time.Time
	if dto.PositionAt != nil {
		at := dto.PositionAt.UTC()
		positionAt = &at
	}

	return courier.RestoreCourier(id, dto.Name, dto.Phone, dto.Available, position, positionAt)
}
