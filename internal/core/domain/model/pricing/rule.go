package pricing

import (
	"errors"
	"strings"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Rule is a tariff for a delivery mode. A rule with both zones set applies to
// that origin/destination pair only; a rule with no zones is the mode's
// global rule.
type Rule struct {
	ID                kernel.UUID
	Name              string
	Mode              parcel.DeliveryMode
	OriginZoneID      *kernel.UUID
	DestinationZoneID *kernel.UUID
	BasePrice         decimal.Decimal
	PerKm             decimal.Decimal
	PerKg             decimal.Decimal
	InsuranceRate     decimal.Decimal
	MinPrice          decimal.Decimal
	MaxPrice          *decimal.Decimal
	Active            bool
}

// Validate checks the rule's shape: zones are set together or not at all,
// amounts are non-negative and the max price is not below the min price.
func (r *Rule) Validate() error {
	var problems []error
	if err := r.ID.Validate(); err != nil {
		problems = append(problems, err)
	}
	if strings.TrimSpace(r.Name) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("name"))
	}
	if err := r.Mode.Validate(); err != nil {
		problems = append(problems, err)
	}
	if (r.OriginZoneID == nil) != (r.DestinationZoneID == nil) {
		problems = append(problems, errs.NewValueIsInvalidError("zones: origin and destination must be set together"))
	}
	for name, v := range map[string]decimal.Decimal{
		"base_price":     r.BasePrice,
		"per_km":         r.PerKm,
		"per_kg":         r.PerKg,
		"insurance_rate": r.InsuranceRate,
		"min_price":      r.MinPrice,
	} {
		if v.IsNegative() {
			problems = append(problems, errs.NewValueIsOutOfRangeError(name, v, 0, "-"))
		}
	}
	if r.MaxPrice != nil && r.MaxPrice.LessThan(r.MinPrice) {
		problems = append(problems, errs.NewValueIsOutOfRangeError("max_price", *r.MaxPrice, r.MinPrice, "-"))
	}
	return errors.Join(problems...)
}

// IsGlobal reports whether the rule applies to every zone pair.
func (r *Rule) IsGlobal() bool {
	return r.OriginZoneID == nil && r.DestinationZoneID == nil
}

// Matches reports whether the rule is the zone-pair rule for origin -> destination.
func (r *Rule) Matches(originZone, destinationZone kernel.UUID) bool {
	if r.IsGlobal() {
		return false
	}
	return r.OriginZoneID.IsEqual(originZone) && r.DestinationZoneID.IsEqual(destinationZone)
}

// Select picks the rule for a quote: the active zone-pair rule when both zones
// are known, else the active global rule for the mode. nil means "use the
// configured defaults".
func Select(rules []*Rule, mode parcel.DeliveryMode, originZone, destinationZone *kernel.UUID) *Rule {
	var global *Rule
	for _, r := range rules {
		if !r.Active || r.Mode != mode {
			continue
		}
		if originZone != nil && destinationZone != nil && r.Matches(*originZone, *destinationZone) {
			return r
		}
		if r.IsGlobal() && global == nil {
			global = r
		}
	}
	return global
}

// ZoneOf returns the first active zone containing relayID.
func ZoneOf(zones []*Zone, relayID *kernel.UUID) *kernel.UUID {
	if relayID == nil {
		return nil
	}
	for _, z := range zones {
		if z.Active && z.Contains(*relayID) {
			id := z.ID
			return &id
		}
	}
	return nil
}
