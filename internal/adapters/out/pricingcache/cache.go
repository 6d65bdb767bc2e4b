// Package pricingcache serves pricing rules and zones from Redis with a
// small in-process layer in front, the way quotes read them on every call.
package pricingcache

import (
	"context"
	"errors"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/pricing"
	"pickupoint/internal/core/ports"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var (
	_ ports.PricingRuleSource       = (*Cache)(nil)
	_ ports.PricingCacheInvalidator = (*Cache)(nil)
)

const (
	keyPrefix       = "pickupoint:pricing:"
	zonesKey        = keyPrefix + "zones"
	DefaultTTL      = 5 * time.Minute
	localCacheLimit = time.Minute
)

var cachedModes = []parcel.DeliveryMode{parcel.RelayToRelay, parcel.RelayToHome, parcel.HomeToRelay, parcel.HomeToHome}

// Cache wraps a PricingRuleSource. Invalidate drops the shared Redis entries
// and this instance's local copies; other instances keep their local copy
// for at most a minute.
type Cache struct {
	source ports.PricingRuleSource
	cache  *cache.Cache
	ttl    time.Duration
}

// New caches source in client. localSize > 0 adds a TinyLFU layer of that
// many entries in front of Redis.
func New(source ports.PricingRuleSource, client redis.UniversalClient, ttl time.Duration, localSize int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	opts := &cache.Options{Redis: client}
	if localSize > 0 {
		opts.LocalCache = cache.NewTinyLFU(localSize, min(ttl, localCacheLimit))
	}
	return &Cache{source: source, cache: cache.New(opts), ttl: ttl}
}

func (c *Cache) ActiveRules(ctx context.Context, mode parcel.DeliveryMode) ([]*pricing.Rule, error) {
	var cached []ruleEntry
	err := c.cache.Once(&cache.Item{
		Ctx:   ctx,
		Key:   rulesKey(mode),
		Value: &cached,
		TTL:   c.ttl,
		Do: func(*cache.Item) (any, error) {
			rules, err := c.source.ActiveRules(ctx, mode)
			if err != nil {
				return nil, err
			}
			entries := make([]ruleEntry, 0, len(rules))
			for _, r := range rules {
				entries = append(entries, ruleToEntry(r))
			}
			return entries, nil
		},
	})
	if err != nil {
		return nil, err
	}

	rules := make([]*pricing.Rule, 0, len(cached))
	for _, e := range cached {
		r, err := e.toDomain()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func (c *Cache) ActiveZones(ctx context.Context) ([]*pricing.Zone, error) {
	var cached []zoneEntry
	err := c.cache.Once(&cache.Item{
		Ctx:   ctx,
		Key:   zonesKey,
		Value: &cached,
		TTL:   c.ttl,
		Do: func(*cache.Item) (any, error) {
			zones, err := c.source.ActiveZones(ctx)
			if err != nil {
				return nil, err
			}
			entries := make([]zoneEntry, 0, len(zones))
			for _, z := range zones {
				entries = append(entries, zoneToEntry(z))
			}
			return entries, nil
		},
	})
	if err != nil {
		return nil, err
	}

	zones := make([]*pricing.Zone, 0, len(cached))
	for _, e := range cached {
		z, err := e.toDomain()
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

func (c *Cache) Invalidate(ctx context.Context) error {
	var problems []error
	for _, mode := range cachedModes {
		problems = append(problems, c.delete(ctx, rulesKey(mode)))
	}
	problems = append(problems, c.delete(ctx, zonesKey))
	return errors.Join(problems...)
}

func (c *Cache) delete(ctx context.Context, key string) error {
	err := c.cache.Delete(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	return err
}

func rulesKey(mode parcel.DeliveryMode) string {
	return keyPrefix + "rules:" + mode.String()
}

type ruleEntry struct {
	ID                string
	Name              string
	Mode              string
	OriginZoneID      string
	DestinationZoneID string
	BasePrice         string
	PerKm             string
	PerKg             string
	InsuranceRate     string
	MinPrice          string
	MaxPrice          string
	Active            bool
}

func ruleToEntry(r *pricing.Rule) ruleEntry {
	e := ruleEntry{
		ID:            r.ID.String(),
		Name:          r.Name,
		Mode:          r.Mode.String(),
		BasePrice:     r.BasePrice.String(),
		PerKm:         r.PerKm.String(),
		PerKg:         r.PerKg.String(),
		InsuranceRate: r.InsuranceRate.String(),
		MinPrice:      r.MinPrice.String(),
		Active:        r.Active,
	}
	if r.OriginZoneID != nil {
		e.OriginZoneID = r.OriginZoneID.String()
	}
	if r.DestinationZoneID != nil {
		e.DestinationZoneID = r.DestinationZoneID.String()
	}
	if r.MaxPrice != nil {
		e.MaxPrice = r.MaxPrice.String()
	}
	return e
}

func (e ruleEntry) toDomain() (*pricing.Rule, error) {
	id, err := kernel.UUIDFromString(e.ID)
	if err != nil {
		return nil, err
	}
	mode, err := parcel.ParseDeliveryMode(e.Mode)
	if err != nil {
		return nil, err
	}
	origin, err := optionalUUID(e.OriginZoneID)
	if err != nil {
		return nil, err
	}
	destination, err := optionalUUID(e.DestinationZoneID)
	if err != nil {
		return nil, err
	}

	amounts := make([]decimal.Decimal, 5)
	for i, s := range []string{e.BasePrice, e.PerKm, e.PerKg, e.InsuranceRate, e.MinPrice} {
		if amounts[i], err = decimal.NewFromString(s); err != nil {
			return nil, err
		}
	}
	var maxPrice *decimal.Decimal
	if e.MaxPrice != "" {
		v, err := decimal.NewFromString(e.MaxPrice)
		if err != nil {
			return nil, err
		}
		maxPrice = &v
	}

	return &pricing.Rule{
		ID:                id,
		Name:              e.Name,
		Mode:              mode,
		OriginZoneID:      origin,
		DestinationZoneID: destination,
		BasePrice:         amounts[0],
		PerKm:             amounts[1],
		PerKg:             amounts[2],
		InsuranceRate:     amounts[3],
		MinPrice:          amounts[4],
		MaxPrice:          maxPrice,
		Active:            e.Active,
	}, nil
}

type zoneEntry struct {
	ID       string
	Name     string
	RelayIDs []string
	Active   bool
}

func zoneToEntry(z *pricing.Zone) zoneEntry {
	ids := make([]string, 0, len(z.RelayIDs))
	for _, id := range z.RelayIDs {
		ids = append(ids, id.String())
	}
	return zoneEntry{ID: z.ID.String(), Name: z.Name, RelayIDs: ids, Active: z.Active}
}

func (e zoneEntry) toDomain() (*pricing.Zone, error) {
	id, err := kernel.UUIDFromString(e.ID)
	if err != nil {
		return nil, err
	}
	relayIDs := make([]kernel.UUID, 0, len(e.RelayIDs))
	for _, s := range e.RelayIDs {
		relayID, err := kernel.UUIDFromString(s)
		if err != nil {
			return nil, err
		}
		relayIDs = append(relayIDs, relayID)
	}
	return pricing.NewZone(id, e.Name, relayIDs, e.Active)
}

func optionalUUID(s string) (*kernel.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
