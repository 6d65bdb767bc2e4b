package queries

import (
	"context"

	"pickupoint/internal/core/ports"
)

// GetParcelQueryHandler loads the parcel aggregate and projects it.
type GetParcelQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetParcelQueryHandler(uowFactory ports.UnitOfWorkFactory) GetParcelQueryHandler {
	return GetParcelQueryHandler{uowFactory: uowFactory}
}

func (h GetParcelQueryHandler) Handle(ctx context.Context, query GetParcelQuery) (ParcelView, error) {
	if err := query.Validate(); err != nil {
		return ParcelView{}, err
	}

	parcels := h.uowFactory.Create().ParcelRepository()
	if query.parcelID != nil {
		p, err := parcels.Get(ctx, *query.parcelID)
		if err != nil {
			return ParcelView{}, err
		}
		return NewParcelView(p), nil
	}

	p, err := parcels.GetByTrackingCode(ctx, query.trackingCode)
	if err != nil {
		return ParcelView{}, err
	}
	return NewParcelView(p), nil
}
