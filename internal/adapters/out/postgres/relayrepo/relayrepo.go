// Package relayrepo persists relay points.
package relayrepo

import (
	"context"
	"errors"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/relay"
	"pickupoint/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RelayDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:"type:varchar(255);not null"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	City    string    `gorm:"type:varchar(128)"`
	Lat     *float64
	Lng     *float64
	Active  bool `gorm:"not null;index"`
}

func (RelayDTO) TableName() string {
	return "relays"
}

func fromDomain(r *relay.Relay) RelayDTO {
	dto := RelayDTO{
		ID:      r.ID().Bytes(),
		Name:    r.Name(),
		OwnerID: r.OwnerID().Bytes(),
		City:    r.City(),
		Active:  r.IsActive(),
	}
	if p := r.Point(); p != nil {
		lat, lng := p.Lat(), p.Lng()
		dto.Lat, dto.Lng = &lat, &lng
	}
	return dto
}

func toDomain(dto RelayDTO) (*relay.Relay, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	ownerID, err := kernel.UUIDFromGoogle(dto.OwnerID)
	if err != nil {
		return nil, err
	}
	point, err := kernel.OptionalGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return nil, err
	}
	return relay.RestoreRelay(id, dto.Name, ownerID, dto.City, point, dto.Active)
}

// GormRelayRepository implements ports.RelayRepository using GORM.
type GormRelayRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormRelayRepository(db *gorm.DB, tracker aggregateTracker) *GormRelayRepository {
	return &GormRelayRepository{db: db, tracker: tracker}
}

func (r *GormRelayRepository) Add(ctx context.Context, aggregate *relay.Relay) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormRelayRepository) Update(ctx context.Context, aggregate *relay.Relay) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&RelayDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("relay", aggregate.ID().String())
	}
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormRelayRepository) Get(ctx context.Context, id kernel.UUID) (*relay.Relay, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto RelayDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("relay", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormRelayRepository) ListActive(ctx context.Context) ([]*relay.Relay, error) {
	var dtos []RelayDTO
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}
	relays := make([]*relay.Relay, 0, len(dtos))
	for _, dto := range dtos {
		rl, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		relays = append(relays, rl)
	}
	return relays, nil
}
