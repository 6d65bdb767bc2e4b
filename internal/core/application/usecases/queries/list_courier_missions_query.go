package queries

import (
	"errors"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/guard"
)

var ErrListCourierMissionsQueryIsNotConstructed = errors.New(
	"ListCourierMissionsQuery must be created via NewListCourierMissionsQuery constructor",
)

// ListCourierMissionsQuery lists the missions bound to a courier, newest first.
type ListCourierMissionsQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewListCourierMissionsQuery(courierID kernel.UUID) (ListCourierMissionsQuery, error) {
	if err := courierID.Validate(); err != nil {
		return ListCourierMissionsQuery{}, err
	}
	return ListCourierMissionsQuery{courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListCourierMissionsQuery) Validate() error {
	return q.guard.Validate(ErrListCourierMissionsQueryIsNotConstructed)
}
