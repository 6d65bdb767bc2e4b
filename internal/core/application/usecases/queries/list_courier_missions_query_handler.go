package queries

import (
	"context"

	"gorm.io/gorm"
)

type ListCourierMissionsQueryHandler struct {
	db *gorm.DB
}

func NewListCourierMissionsQueryHandler(db *gorm.DB) ListCourierMissionsQueryHandler {
	return ListCourierMissionsQueryHandler{db: db}
}

// Handle returns every mission currently or formerly held by the courier.
// Released missions no longer carry the courier and are not listed.
func (h ListCourierMissionsQueryHandler) Handle(
	ctx context.Context,
	query ListCourierMissionsQuery,
) ([]MissionSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	missions := make([]MissionSummary, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+missionSummaryColumns+`
		FROM delivery_missions
		WHERE courier_id = ?
		ORDER BY created_at DESC
	`, query.courierID.String()).Rows()
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

	return missions, nil
}
