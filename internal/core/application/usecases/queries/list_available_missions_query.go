package queries

import (
	"errors"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"
)

var ErrListAvailableMissionsQueryIsNotConstructed = errors.New(
	"ListAvailableMissionsQuery must be created via NewListAvailableMissionsQuery constructor",
)

// ListAvailableMissionsQuery lists the pending missions a courier may accept:
// those offered to them exclusively and those open to everyone.
//
// Example:
//
//	here, _ := kernel.NewGeoPoint(6.1319, 1.2228)
//	radius := 5.0
//	query, _ := NewListAvailableMissionsQuery(courierID, &here, &radius)
//	missions, err := handler.Handle(ctx, query) // nearest pickup first
type ListAvailableMissionsQuery struct {
	courierID kernel.UUID
	position  *kernel.GeoPoint
	radiusKm  *float64

	guard guard.ConstructorGuard
}

// NewListAvailableMissionsQuery sorts by distance when position is given.
// radiusKm drops missions whose pickup is farther; it needs a position.
func NewListAvailableMissionsQuery(courierID kernel.UUID, position *kernel.GeoPoint, radiusKm *float64) (ListAvailableMissionsQuery, error) {
	var problems []error
	problems = append(problems, courierID.Validate())
	if position != nil {
		problems = append(problems, position.Validate())
	}
	if radiusKm != nil {
		if *radiusKm <= 0 {
			problems = append(problems, errs.NewValueIsOutOfRangeError("radius_km", *radiusKm, "> 0", "-"))
		}
		if position == nil {
			problems = append(problems, errs.NewValueIsRequiredError("position"))
		}
	}
	if err := errors.Join(problems...); err != nil {
		return ListAvailableMissionsQuery{}, err
	}

	return ListAvailableMissionsQuery{
		courierID: courierID,
		position:  position,
		radiusKm:  radiusKm,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q ListAvailableMissionsQuery) Validate() error {
	return q.guard.Validate(ErrListAvailableMissionsQueryIsNotConstructed)
}
