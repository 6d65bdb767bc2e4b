package services

import (
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/pricing"
	"pickupoint/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// PricingConfig holds the defaults used when no pricing rule applies, and the
// constants every quote shares.
type PricingConfig struct {
	BasePriceRelay     decimal.Decimal
	BasePriceHome      decimal.Decimal
	PerKm              decimal.Decimal
	PerKg              decimal.Decimal
	FreeWeightKg       decimal.Decimal
	InsuranceRate      decimal.Decimal
	InsuranceFloor     decimal.Decimal
	MinPrice           decimal.Decimal
	ExpressMultiplier  decimal.Decimal
	FallbackDistanceKm float64
	RoundTo            decimal.Decimal
	Currency           string
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		BasePriceRelay:     decimal.NewFromInt(500),
		BasePriceHome:      decimal.NewFromInt(1000),
		PerKm:              decimal.NewFromInt(50),
		PerKg:              decimal.NewFromInt(100),
		FreeWeightKg:       decimal.NewFromInt(2),
		InsuranceRate:      decimal.RequireFromString("0.02"),
		InsuranceFloor:     decimal.NewFromInt(100),
		MinPrice:           decimal.NewFromInt(500),
		ExpressMultiplier:  decimal.RequireFromString("1.5"),
		FallbackDistanceKm: 10,
		RoundTo:            decimal.NewFromInt(50),
		Currency:           "XOF",
	}
}

// QuoteInput is everything a quote depends on, already resolved by the caller.
type QuoteInput struct {
	Mode               parcel.DeliveryMode
	Origin             *kernel.GeoPoint
	Destination        *kernel.GeoPoint
	DistanceKmOverride *float64
	WeightKg           float64
	DeclaredValue      decimal.Decimal
	Insured            bool
	Express            bool
	Rule               *pricing.Rule
	OriginZoneID       *kernel.UUID
	DestinationZoneID  *kernel.UUID
	Coefficient        Coefficient
}

// Breakdown explains how a price was reached.
type Breakdown struct {
	RuleID            *kernel.UUID
	OriginZoneID      *kernel.UUID
	DestinationZoneID *kernel.UUID
	BasePrice         decimal.Decimal
	DistanceKm        float64
	DistanceEstimated bool
	DistanceCost      decimal.Decimal
	WeightCost        decimal.Decimal
	InsuranceCost     decimal.Decimal
	Subtotal          decimal.Decimal
	Factors           map[string]decimal.Decimal
	SupplyRatio       *float64
	Coefficient       decimal.Decimal
	ExpressMultiplier *decimal.Decimal
	MinPrice          decimal.Decimal
	MaxPrice          *decimal.Decimal
	Total             decimal.Decimal
	Currency          string
}

// PricingEngine computes parcel prices. It is a pure function of its input:
// equal inputs always produce the same price.
type PricingEngine struct {
	cfg PricingConfig
}

func NewPricingEngine(cfg PricingConfig) PricingEngine {
	return PricingEngine{cfg: cfg}
}

func (e PricingEngine) Config() PricingConfig {
	return e.cfg
}

func (e PricingEngine) Quote(in QuoteInput) (decimal.Decimal, Breakdown, error) {
	if err := in.Mode.Validate(); err != nil {
		return decimal.Zero, Breakdown{}, err
	}
	if in.WeightKg <= 0 {
		return decimal.Zero, Breakdown{}, errs.NewValueIsOutOfRangeError("weight_kg", in.WeightKg, "> 0", "-")
	}

	base, perKm, perKg, insuranceRate, minPrice, maxPrice := e.tariff(in)
	distanceKm, estimated := e.distanceKm(in)

	b := Breakdown{
		OriginZoneID:      in.OriginZoneID,
		DestinationZoneID: in.DestinationZoneID,
		BasePrice:         base,
		DistanceKm:        distanceKm,
		DistanceEstimated: estimated,
		DistanceCost:      decimal.NewFromFloat(distanceKm).Mul(perKm),
		WeightCost:        decimal.Max(decimal.Zero, decimal.NewFromFloat(in.WeightKg).Sub(e.cfg.FreeWeightKg)).Mul(perKg),
		InsuranceCost:     decimal.Zero,
		Factors:           in.Coefficient.Factors,
		SupplyRatio:       in.Coefficient.SupplyRatio,
		Coefficient:       in.Coefficient.Value,
		MinPrice:          minPrice,
		MaxPrice:          maxPrice,
		Currency:          e.cfg.Currency,
	}
	if in.Rule != nil {
		id := in.Rule.ID
		b.RuleID = &id
	}
	if b.Coefficient.IsZero() {
		b.Coefficient = decimal.NewFromInt(1)
	}
	if in.Insured {
		b.InsuranceCost = decimal.Max(e.cfg.InsuranceFloor, in.DeclaredValue.Mul(insuranceRate))
	}

	b.Subtotal = base.Add(b.DistanceCost).Add(b.WeightCost).Add(b.InsuranceCost)

	priced := b.Subtotal.Mul(b.Coefficient)
	if in.Express {
		m := e.cfg.ExpressMultiplier
		b.ExpressMultiplier = &m
		priced = priced.Mul(m)
	}
	priced = decimal.Max(priced, minPrice)
	if maxPrice != nil {
		priced = decimal.Min(priced, *maxPrice)
	}

	b.Total = roundUp(priced, e.cfg.RoundTo)
	return b.Total, b, nil
}

func (e PricingEngine) tariff(in QuoteInput) (base, perKm, perKg, insuranceRate, minPrice decimal.Decimal, maxPrice *decimal.Decimal) {
	if r := in.Rule; r != nil {
		return r.BasePrice, r.PerKm, r.PerKg, r.InsuranceRate, r.MinPrice, r.MaxPrice
	}
	base = e.cfg.BasePriceRelay
	if in.Mode.UsesHomeBasePrice() {
		base = e.cfg.BasePriceHome
	}
	return base, e.cfg.PerKm, e.cfg.PerKg, e.cfg.InsuranceRate, e.cfg.MinPrice, nil
}

// distanceKm is the override, else the haversine distance (at least 1 km),
// else the configured fallback. It never returns zero.
func (e PricingEngine) distanceKm(in QuoteInput) (km float64, estimated bool) {
	if in.DistanceKmOverride != nil && *in.DistanceKmOverride > 0 {
		return max(*in.DistanceKmOverride, 1), false
	}
	if in.Origin != nil && in.Destination != nil {
		if d, err := in.Origin.DistanceKm(*in.Destination); err == nil {
			return max(d, 1), false
		}
	}
	return e.cfg.FallbackDistanceKm, true
}

func roundUp(v, increment decimal.Decimal) decimal.Decimal {
	if !increment.IsPositive() {
		return v.Ceil()
	}
	return v.Div(increment).Ceil().Mul(increment)
}
