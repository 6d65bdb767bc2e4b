package services

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FactorRushHour    = "rush_hour"
	FactorLunchRush   = "lunch_rush"
	FactorNight       = "night"
	FactorSunday      = "sunday"
	FactorSurgeHigh   = "surge_high"
	FactorSurgeMedium = "surge_medium"
	FactorLowDemand   = "low_demand"
)

var (
	coefficientFloor   = decimal.RequireFromString("0.80")
	coefficientCeiling = decimal.RequireFromString("2.00")
)

// SupplyDemand is a snapshot of pending missions against available couriers.
type SupplyDemand struct {
	PendingMissions   int
	AvailableCouriers int
}

// Ratio is pending / max(available, 1).
func (s SupplyDemand) Ratio() float64 {
	return float64(s.PendingMissions) / float64(max(s.AvailableCouriers, 1))
}

// Coefficient is the multiplier applied to a quote subtotal along with the
// factors that produced it.
type Coefficient struct {
	Value       decimal.Decimal
	Factors     map[string]decimal.Decimal
	SupplyRatio *float64
}

// NeutralCoefficient leaves prices unchanged.
func NeutralCoefficient() Coefficient {
	return Coefficient{Value: decimal.NewFromInt(1), Factors: map[string]decimal.Decimal{}}
}

// DynamicCoefficient derives the price multiplier from the local time of day,
// the day of the week and the supply/demand ratio.
type DynamicCoefficient struct {
	location *time.Location
}

// NewDynamicCoefficient evaluates time-of-day rules in loc (UTC when nil).
func NewDynamicCoefficient(loc *time.Location) DynamicCoefficient {
	if loc == nil {
		loc = time.UTC
	}
	return DynamicCoefficient{location: loc}
}

// Compute returns the coefficient for now. A nil supply snapshot (the counts
// could not be read) leaves the supply factor out.
func (d DynamicCoefficient) Compute(now time.Time, supply *SupplyDemand) Coefficient {
	local := now.In(d.location)
	hour := local.Hour()
	c := NeutralCoefficient()

	apply := func(name, factor string) {
		f := decimal.RequireFromString(factor)
		c.Factors[name] = f
		c.Value = c.Value.Mul(f)
	}

	switch {
	case (hour >= 7 && hour < 9) || (hour >= 17 && hour < 20):
		apply(FactorRushHour, "1.25")
	case hour >= 12 && hour < 14:
		apply(FactorLunchRush, "1.10")
	}
	if hour >= 20 || hour < 7 {
		apply(FactorNight, "1.20")
	}
	if local.Weekday() == time.Sunday {
		apply(FactorSunday, "1.20")
	}

	if supply != nil {
		ratio := supply.Ratio()
		switch {
		case ratio >= 5:
			apply(FactorSurgeHigh, "1.50")
		case ratio >= 3:
			apply(FactorSurgeMedium, "1.30")
		case ratio < 0.5 && supply.PendingMissions > 0:
			apply(FactorLowDemand, "0.90")
		}
		rounded, _ := decimal.NewFromFloat(ratio).Round(2).Float64()
		c.SupplyRatio = &rounded
	}

	c.Value = decimal.Max(coefficientFloor, decimal.Min(c.Value, coefficientCeiling)).Round(2)
	return c
}
