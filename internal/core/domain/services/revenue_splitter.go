package services

import (
	"pickupoint/internal/core/domain/model/parcel"

	"github.com/shopspring/decimal"
)

// SplitRates are the fractions of a price paid to each party. The platform
// rate is informational: the platform keeps whatever rounding leaves over.
type SplitRates struct {
	Platform         decimal.Decimal
	OriginRelay      decimal.Decimal
	DestinationRelay decimal.Decimal
	Courier          decimal.Decimal
}

// RevenueSplitConfig holds the split per delivery mode.
type RevenueSplitConfig struct {
	RelayToRelay SplitRates
	RelayToHome  SplitRates
	HomeToRelay  SplitRates
	HomeToHome   SplitRates
}

func DefaultRevenueSplitConfig() RevenueSplitConfig {
	pct := func(s string) decimal.Decimal { return decimal.RequireFromString(s).Div(decimal.NewFromInt(100)) }
	return RevenueSplitConfig{
		RelayToRelay: SplitRates{Platform: pct("15"), OriginRelay: pct("7.5"), DestinationRelay: pct("7.5"), Courier: pct("70")},
		RelayToHome:  SplitRates{Platform: pct("15"), OriginRelay: pct("15"), Courier: pct("70")},
		HomeToRelay:  SplitRates{Platform: pct("15"), DestinationRelay: pct("15"), Courier: pct("70")},
		HomeToHome:   SplitRates{Platform: pct("15"), Courier: pct("85")},
	}
}

func (c RevenueSplitConfig) Rates(mode parcel.DeliveryMode) SplitRates {
	switch mode {
	case parcel.RelayToRelay:
		return c.RelayToRelay
	case parcel.RelayToHome:
		return c.RelayToHome
	case parcel.HomeToRelay:
		return c.HomeToRelay
	case parcel.HomeToHome:
		return c.HomeToHome
	case parcel.ModeUnknown:
	}
	return SplitRates{}
}

// Shares is a price divided between the parties. The four amounts always sum
// to the price.
type Shares struct {
	Platform         decimal.Decimal
	OriginRelay      decimal.Decimal
	DestinationRelay decimal.Decimal
	Courier          decimal.Decimal
}

func (s Shares) Total() decimal.Decimal {
	return s.Platform.Add(s.OriginRelay).Add(s.DestinationRelay).Add(s.Courier)
}

// RevenueSplitter divides a settled price between platform, relays and courier.
type RevenueSplitter struct {
	cfg RevenueSplitConfig
}

func NewRevenueSplitter(cfg RevenueSplitConfig) RevenueSplitter {
	return RevenueSplitter{cfg: cfg}
}

// Split rounds each party's share to whole currency units; the platform gets
// the remainder.
func (s RevenueSplitter) Split(mode parcel.DeliveryMode, price decimal.Decimal) Shares {
	rates := s.cfg.Rates(mode)
	out := Shares{
		OriginRelay:      price.Mul(rates.OriginRelay).Round(0),
		DestinationRelay: price.Mul(rates.DestinationRelay).Round(0),
		Courier:          price.Mul(rates.Courier).Round(0),
	}
	out.Platform = price.Sub(out.OriginRelay).Sub(out.DestinationRelay).Sub(out.Courier)
	return out
}

// CourierShare is the amount shown to couriers as a mission's earnings.
func (s RevenueSplitter) CourierShare(mode parcel.DeliveryMode, price decimal.Decimal) decimal.Decimal {
	return s.Split(mode, price).Courier
}
