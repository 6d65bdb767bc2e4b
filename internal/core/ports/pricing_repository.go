package ports

import (
	"context"

	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/pricing"
	"pickupoint/internal/core/domain/services"
)

// PricingRuleSource is the read side of the tariffs. Quotes read through it,
// so it may be served from a cache.
type PricingRuleSource interface {
	// ActiveRules returns the active rules for a mode.
	ActiveRules(ctx context.Context, mode parcel.DeliveryMode) ([]*pricing.Rule, error)

	// ActiveZones returns every active zone.
	ActiveZones(ctx context.Context) ([]*pricing.Zone, error)
}

// PricingRepository stores the admin-managed tariffs.
type PricingRepository interface {
	PricingRuleSource

	UpsertRule(ctx context.Context, r *pricing.Rule) error
	UpsertZone(ctx context.Context, z *pricing.Zone) error
}

// PricingCacheInvalidator drops cached tariffs after an admin change.
type PricingCacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// SupplyDemandReader counts pending missions and available couriers for
// dynamic pricing.
type SupplyDemandReader interface {
	SupplyDemand(ctx context.Context) (services.SupplyDemand, error)
}
