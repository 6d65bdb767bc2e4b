package queries

import (
	"context"

	"pickupoint/internal/core/domain/model/mission"

	"gorm.io/gorm"
)

// ListAvailableMissionsQueryHandler reads pending missions straight from the
// missions table. It never advances an offer: expiry is the cascade job's
// business, so an offer past its window stays listed until the job moves it.
type ListAvailableMissionsQueryHandler struct {
	db *gorm.DB
}

func NewListAvailableMissionsQueryHandler(db *gorm.DB) ListAvailableMissionsQueryHandler {
	return ListAvailableMissionsQueryHandler{db: db}
}

func (h ListAvailableMissionsQueryHandler) Handle(
	ctx context.Context,
	query ListAvailableMissionsQuery,
) ([]MissionSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	missions := make([]MissionSummary, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+missionSummaryColumns+`
		FROM delivery_missions
		WHERE status = ? AND (broadcast = ? OR offered_to = ?)
		ORDER BY created_at
	`, mission.Pending.String(), true, query.courierID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		summary, scanErr := scanMissionSummary(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		missions = append(missions, summary)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if query.position == nil {
		return missions, nil
	}
	sortByPickupDistance(missions, *query.position)
	if query.radiusKm == nil {
		return missions, nil
	}

	within := missions[:0]
	for _, m := range missions {
		if m.DistanceKm == nil || *m.DistanceKm <= *query.radiusKm {
			within = append(within, m)
		}
	}
	return within, nil
}
