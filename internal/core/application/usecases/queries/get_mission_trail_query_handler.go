package queries

import (
	"context"

	"pickupoint/internal/core/ports"
	"pickupoint/internal/pkg/errs"
)

type GetMissionTrailQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetMissionTrailQueryHandler(uowFactory ports.UnitOfWorkFactory) GetMissionTrailQueryHandler {
	return GetMissionTrailQueryHandler{uowFactory: uowFactory}
}

func (h GetMissionTrailQueryHandler) Handle(ctx context.Context, query GetMissionTrailQuery) (MissionTrailView, error) {
	if err := query.Validate(); err != nil {
		return MissionTrailView{}, err
	}

	m, err := h.uowFactory.Create().MissionRepository().Get(ctx, query.missionID)
	if err != nil {
		return MissionTrailView{}, err
	}
	if !query.actor.Role.IsAdministrative() && (query.actor.ID == nil || !m.IsAssignedTo(*query.actor.ID)) {
		return MissionTrailView{}, errs.NewNotPermittedError(query.actor.Role, "read mission trail")
	}

	return MissionTrailView{
		MissionID:      m.ID(),
		Status:         m.Status(),
		CourierID:      m.CourierID(),
		LastLocation:   m.LastLocation(),
		LastLocationAt: m.LastLocationAt(),
		EtaSeconds:     m.EtaSeconds(),
		Points:         m.Trail(),
	}, nil
}
