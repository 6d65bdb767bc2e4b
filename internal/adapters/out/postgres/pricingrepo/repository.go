package pricingrepo

import (
	"context"

	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/pricing"
	"pickupoint/internal/core/domain/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPricingRepository implements ports.PricingRepository using GORM.
type GormPricingRepository struct {
	db *gorm.DB
}

func NewGormPricingRepository(db *gorm.DB) *GormPricingRepository {
	return &GormPricingRepository{db: db}
}

// UpsertRule inserts the rule or overwrites every column of the stored one.
func (r *GormPricingRepository) UpsertRule(ctx context.Context, rule *pricing.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	dto := ruleFromDomain(rule)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&dto).Error
}

func (r *GormPricingRepository) UpsertZone(ctx context.Context, zone *pricing.Zone) error {
	dto := zoneFromDomain(zone)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&dto).Error
}

func (r *GormPricingRepository) ActiveRules(ctx context.Context, mode parcel.DeliveryMode) ([]*pricing.Rule, error) {
	var dtos []RuleDTO
	err := r.db.WithContext(ctx).
		Where("mode = ? AND active = ?", mode.String(), true).
		Order("name").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	rules := make([]*pricing.Rule, 0, len(dtos))
	for _, dto := range dtos {
		rule, err := ruleToDomain(dto)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (r *GormPricingRepository) ActiveZones(ctx context.Context) ([]*pricing.Zone, error) {
	var dtos []ZoneDTO
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	zones := make([]*pricing.Zone, 0, len(dtos))
	for _, dto := range dtos {
		zone, err := zoneToDomain(dto)
		if err != nil {
			return nil, err
		}
		zones = append(zones, zone)
	}
	return zones, nil
}

// GormSupplyDemandReader counts rows in the missions and couriers tables.
type GormSupplyDemandReader struct {
	db *gorm.DB
}

func NewGormSupplyDemandReader(db *gorm.DB) *GormSupplyDemandReader {
	return &GormSupplyDemandReader{db: db}
}

func (r *GormSupplyDemandReader) SupplyDemand(ctx context.Context) (services.SupplyDemand, error) {
	var pending, available int64
	if err := r.db.WithContext(ctx).
		Table("delivery_missions").
		Where("status = ?", mission.Pending.String()).
		Count(&pending).Error; err != nil {
		return services.SupplyDemand{}, err
	}
	if err := r.db.WithContext(ctx).
		Table("couriers").
		Where("available = ?", true).
		Count(&available).Error; err != nil {
		return services.SupplyDemand{}, err
	}
	return services.SupplyDemand{PendingMissions: int(pending), AvailableCouriers: int(available)}, nil
}
