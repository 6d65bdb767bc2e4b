package queries

import (
	"errors"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"
)

var ErrGetMissionTrailQueryIsNotConstructed = errors.New(
	"GetMissionTrailQuery must be created via NewGetMissionTrailQuery constructor",
)

// GetMissionTrailQuery reads the recorded courier positions of a mission.
// Operators may read any trail; a courier only the trail of a mission they hold.
type GetMissionTrailQuery struct {
	missionID kernel.UUID
	actor     parcel.Actor

	guard guard.ConstructorGuard
}

func NewGetMissionTrailQuery(missionID kernel.UUID, actor parcel.Actor) (GetMissionTrailQuery, error) {
	if err := errors.Join(missionID.Validate(), actor.Validate()); err != nil {
		return GetMissionTrailQuery{}, err
	}
	if !actor.Role.IsAdministrative() && actor.Role != parcel.RoleCourier {
		return GetMissionTrailQuery{}, errs.NewNotPermittedError(actor.Role, "read mission trail")
	}
	return GetMissionTrailQuery{missionID: missionID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetMissionTrailQuery) Validate() error {
	return q.guard.Validate(ErrGetMissionTrailQueryIsNotConstructed)
}

// MissionTrailView is the trail, oldest point first, with the live tracking
// state of the mission.
type MissionTrailView struct {
	MissionID      kernel.UUID
	Status         mission.Status
	CourierID      *kernel.UUID
	LastLocation   *kernel.GeoPoint
	LastLocationAt *time.Time
	EtaSeconds     *int
	Points         []mission.TrailPoint
}
