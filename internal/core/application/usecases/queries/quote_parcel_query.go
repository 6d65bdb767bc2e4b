// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models for specific use cases; the list queries use
// direct SQL, the others load aggregates through a unit of work that never
// begins a transaction.
package queries

import (
	"errors"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/services"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrQuoteParcelQueryIsNotConstructed = errors.New(
	"QuoteParcelQuery must be created via NewQuoteParcelQuery constructor",
)

// QuoteParcelQuery prices a parcel that does not exist yet. Endpoints are
// either relay IDs, resolved to the relay coordinates, or GPS points.
//
// Example:
//
//	origin, destination := originRelay.ID(), destinationRelay.ID()
//	query, err := NewQuoteParcelQuery(parcel.Spec{
//	    Mode:               parcel.RelayToRelay,
//	    OriginRelayID:      &origin,
//	    DestinationRelayID: &destination,
//	    WeightKg:           1.5,
//	}, nil)
//	if err != nil {
//	    return err
//	}
//
//	quote, err := handler.Handle(ctx, query)
//	fmt.Println(quote.Price) // 900 for 8 km at default rates
type QuoteParcelQuery struct {
	mode               parcel.DeliveryMode
	originRelayID      *kernel.UUID
	destinationRelayID *kernel.UUID
	originPoint        *kernel.GeoPoint
	destinationPoint   *kernel.GeoPoint
	distanceKm         *float64
	weightKg           float64
	declaredValue      decimal.Decimal
	insured            bool
	express            bool

	guard guard.ConstructorGuard
}

// NewQuoteParcelQuery takes the pricing-relevant fields of spec. distanceKm
// overrides the computed distance when set.
func NewQuoteParcelQuery(spec parcel.Spec, distanceKm *float64) (QuoteParcelQuery, error) {
	var problems []error
	if err := spec.Mode.Validate(); err != nil {
		problems = append(problems, err)
	}
	if spec.WeightKg <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("weight_kg", spec.WeightKg, "> 0", "-"))
	}
	if spec.DeclaredValue.IsNegative() {
		problems = append(problems, errs.NewValueIsOutOfRangeError("declared_value", spec.DeclaredValue, 0, "-"))
	}
	if distanceKm != nil && *distanceKm <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("distance_km", *distanceKm, "> 0", "-"))
	}
	if err := errors.Join(problems...); err != nil {
		return QuoteParcelQuery{}, err
	}

	return QuoteParcelQuery{
		mode:               spec.Mode,
		originRelayID:      spec.OriginRelayID,
		destinationRelayID: spec.DestinationRelayID,
		originPoint:        spec.OriginPoint,
		destinationPoint:   spec.DeliveryPoint,
		distanceKm:         distanceKm,
		weightKg:           spec.WeightKg,
		declaredValue:      spec.DeclaredValue,
		insured:            spec.Insured,
		express:            spec.Express,
		guard:              guard.NewConstructorGuard(),
	}, nil
}

func (q QuoteParcelQuery) Validate() error {
	return q.guard.Validate(ErrQuoteParcelQueryIsNotConstructed)
}

// QuoteParcelQueryResponse is the price with the explanation of how it was reached.
type QuoteParcelQueryResponse struct {
	Price     decimal.Decimal
	Breakdown services.Breakdown
}
