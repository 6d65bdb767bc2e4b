package queries

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/pricing"
	"pickupoint/internal/core/domain/services"
	"pickupoint/internal/core/ports"
	"pickupoint/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuoteParcelQueryHandler resolves coordinates, zones and the matching
// tariff, then prices the parcel with the dynamic coefficient of the moment.
// Two calls with the same input, clock and supply/demand return the same
// price.
type QuoteParcelQueryHandler struct {
	db          *gorm.DB
	rules       ports.PricingRuleSource
	supply      ports.SupplyDemandReader
	engine      services.PricingEngine
	coefficient services.DynamicCoefficient
	clock       kernel.Clock
	logger      *slog.Logger
}

// NewQuoteParcelQueryHandler accepts a nil supply reader, in which case the
// supply/demand factor is left out of every quote.
func NewQuoteParcelQueryHandler(
	db *gorm.DB,
	rules ports.PricingRuleSource,
	supply ports.SupplyDemandReader,
	engine services.PricingEngine,
	coefficient services.DynamicCoefficient,
	clock kernel.Clock,
	logger *slog.Logger,
) QuoteParcelQueryHandler {
	if clock == nil {
		clock = kernel.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return QuoteParcelQueryHandler{
		db:          db,
		rules:       rules,
		supply:      supply,
		engine:      engine,
		coefficient: coefficient,
		clock:       clock,
		logger:      logger,
	}
}

func (h QuoteParcelQueryHandler) Handle(ctx context.Context, query QuoteParcelQuery) (QuoteParcelQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return QuoteParcelQueryResponse{}, err
	}

	origin, err := h.endpoint(ctx, query.originPoint, query.originRelayID)
	if err != nil {
		return QuoteParcelQueryResponse{}, err
	}
	destination, err := h.endpoint(ctx, query.destinationPoint, query.destinationRelayID)
	if err != nil {
		return QuoteParcelQueryResponse{}, err
	}

	rules, err := h.rules.ActiveRules(ctx, query.mode)
	if err != nil {
		return QuoteParcelQueryResponse{}, err
	}
	zones, err := h.rules.ActiveZones(ctx)
	if err != nil {
		return QuoteParcelQueryResponse{}, err
	}
	originZone := pricing.ZoneOf(zones, query.originRelayID)
	destinationZone := pricing.ZoneOf(zones, query.destinationRelayID)

	price, breakdown, err := h.engine.Quote(services.QuoteInput{
		Mode:               query.mode,
		Origin:             origin,
		Destination:        destination,
		DistanceKmOverride: query.distanceKm,
		WeightKg:           query.weightKg,
		DeclaredValue:      query.declaredValue,
		Insured:            query.insured,
		Express:            query.express,
		Rule:               pricing.Select(rules, query.mode, originZone, destinationZone),
		OriginZoneID:       originZone,
		DestinationZoneID:  destinationZone,
		Coefficient:        h.coefficient.Compute(h.clock.Now(), h.supplyDemand(ctx)),
	})
	if err != nil {
		return QuoteParcelQueryResponse{}, err
	}
	return QuoteParcelQueryResponse{Price: price, Breakdown: breakdown}, nil
}

// QuoteParcel lets parcel creation price through the same path.
func (h QuoteParcelQueryHandler) QuoteParcel(ctx context.Context, spec parcel.Spec) (decimal.Decimal, error) {
	query, err := NewQuoteParcelQuery(spec, nil)
	if err != nil {
		return decimal.Zero, err
	}
	quote, err := h.Handle(ctx, query)
	if err != nil {
		return decimal.Zero, err
	}
	return quote.Price, nil
}

func (h QuoteParcelQueryHandler) supplyDemand(ctx context.Context) *services.SupplyDemand {
	if h.supply == nil {
		return nil
	}
	sd, err := h.supply.SupplyDemand(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "supply/demand unavailable, pricing without it", "error", err)
		return nil
	}
	return &sd
}

// endpoint prefers the explicit point, then the relay's coordinates. A
// relay without coordinates leaves the endpoint unresolved.
func (h QuoteParcelQueryHandler) endpoint(ctx context.Context, point *kernel.GeoPoint, relayID *kernel.UUID) (*kernel.GeoPoint, error) {
	if point != nil {
		return point, nil
	}
	if relayID == nil {
		return nil, nil
	}

	var lat, lng sql.NullFloat64
	err := h.db.WithContext(ctx).
		Raw(`SELECT lat, lng FROM relays WHERE id = ?`, relayID.String()).
		Row().
		Scan(&lat, &lng)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("relay", relayID.String())
	}
	if err != nil {
		return nil, err
	}
	if !lat.Valid || !lng.Valid {
		return nil, nil
	}

	resolved, err := kernel.NewGeoPoint(lat.Float64, lng.Float64)
	if err != nil {
		return nil, err
	}
	return &resolved, nil
}
