package missionrepo

import (
	"context"
	"errors"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMissionRepository implements ports.MissionRepository using GORM.
type GormMissionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormMissionRepository(db *gorm.DB, tracker aggregateTracker) *GormMissionRepository {
	return &GormMissionRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new mission to the database.
func (r *GormMissionRepository) Add(ctx context.Context, aggregate *mission.Mission) error {
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

// Update writes the mission if nobody changed it since it was loaded. Two
// couriers accepting the same pending mission race here: the loser sees
// errs.ErrVersionIsInvalid. One courier accepting two missions at once trips
// the active-courier unique index and sees errs.ErrCourierBusy.
func (r *GormMissionRepository) Update(ctx context.Context, aggregate *mission.Mission) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	loaded := dto.Version
	dto.Version = loaded + 1

	result := r.db.WithContext(ctx).
		Model(&MissionDTO{}).
		Where("id = ? AND version = ?", dto.ID, loaded).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) && dto.CourierID != nil {
			return errs.NewCourierBusyError(dto.CourierID.String())
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidError("mission " + aggregate.ID().String())
	}

	aggregate.SyncVersion(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a mission by ID.
func (r *GormMissionRepository) Get(ctx context.Context, id kernel.UUID) (*mission.Mission, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto MissionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("mission", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormMissionRepository) GetActiveByParcel(ctx context.Context, parcelID kernel.UUID) (*mission.Mission, error) {
	var dto MissionDTO
	err := r.db.WithContext(ctx).
		Where("parcel_id = ? AND status IN ?", parcelID.Bytes(), statusNames(mission.ActiveStatuses())).
		Order("created_at DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("active mission of parcel", parcelID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormMissionRepository) GetActiveByCourier(ctx context.Context, courierID kernel.UUID) (*mission.Mission, error) {
	var dto MissionDTO
	err := r.db.WithContext(ctx).
		Where("courier_id = ? AND status IN ?", courierID.Bytes(), statusNames(mission.CourierHoldingStatuses())).
		Order("assigned_at DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("active mission of courier", courierID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// CourierIDsHoldingMissions reads only the courier column.
func (r *GormMissionRepository) CourierIDsHoldingMissions(ctx context.Context) (map[kernel.UUID]bool, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&MissionDTO{}).
		Where("courier_id IS NOT NULL AND status IN ?", statusNames(mission.CourierHoldingStatuses())).
		Pluck("courier_id", &ids).Error
	if err != nil {
		return nil, err
	}

	busy := make(map[kernel.UUID]bool, len(ids))
	for _, raw := range ids {
		id, err := kernel.UUIDFromGoogle(raw)
		if err != nil {
			return nil, err
		}
		busy[id] = true
	}
	return busy, nil
}

// ListAssignedBefore returns the sweep's candidates, oldest assignment first.
func (r *GormMissionRepository) ListAssignedBefore(ctx context.Context, cutoff time.Time) ([]*mission.Mission, error) {
	return r.list(ctx, "assigned_at ASC",
		"status = ? AND started_at IS NULL AND assigned_at < ?", mission.Assigned.String(), cutoff)
}

// ListOverdueOffers finds exclusive offers the offer queue never advanced,
// oldest expiry first.
func (r *GormMissionRepository) ListOverdueOffers(ctx context.Context, cutoff time.Time) ([]*mission.Mission, error) {
	return r.list(ctx, "offer_expires_at ASC",
		"status = ? AND broadcast = ? AND offer_expires_at < ?", mission.Pending.String(), false, cutoff)
}

func (r *GormMissionRepository) list(ctx context.Context, order string, query string, args ...any) ([]*mission.Mission, error) {
	var dtos []MissionDTO
	err := r.db.WithContext(ctx).
		Where(query, args...).
		Order(order).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	missions := make([]*mission.Mission, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	return missions, nil
}

func statusNames(statuses []mission.Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}
