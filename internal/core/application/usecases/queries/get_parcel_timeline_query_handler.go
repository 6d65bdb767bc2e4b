package queries

import (
	"context"

	"pickupoint/internal/core/ports"
)

// GetParcelTimelineQueryHandler drains the event log iterator. An unknown
// parcel is reported as not found rather than as an empty timeline.
type GetParcelTimelineQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetParcelTimelineQueryHandler(uowFactory ports.UnitOfWorkFactory) GetParcelTimelineQueryHandler {
	return GetParcelTimelineQueryHandler{uowFactory: uowFactory}
}

func (h GetParcelTimelineQueryHandler) Handle(ctx context.Context, query GetParcelTimelineQuery) ([]TimelineEntry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if _, err := uow.ParcelRepository().Get(ctx, query.parcelID); err != nil {
		return nil, err
	}

	entries := make([]TimelineEntry, 0)
	for event, err := range uow.EventLog().Timeline(ctx, query.parcelID) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, TimelineEntry{
			ID:        event.ID(),
			Kind:      event.Kind(),
			From:      event.From(),
			To:        event.To(),
			ActorID:   event.Actor().ID,
			ActorRole: event.Actor().Role,
			Note:      event.Note(),
			Metadata:  event.Metadata(),
			CreatedAt: event.CreatedAt(),
		})
	}
	return entries, nil
}
