package queries

import (
	"errors"
	"strings"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetParcelQueryIsNotConstructed = errors.New(
	"GetParcelQuery must be created via NewGetParcelQuery constructor",
)

// GetParcelQuery looks a parcel up by ID or, when id is nil, by tracking code.
type GetParcelQuery struct {
	parcelID     *kernel.UUID
	trackingCode string

	guard guard.ConstructorGuard
}

func NewGetParcelQuery(parcelID *kernel.UUID, trackingCode string) (GetParcelQuery, error) {
	trackingCode = strings.ToUpper(strings.TrimSpace(trackingCode))
	if parcelID == nil && trackingCode == "" {
		return GetParcelQuery{}, errs.NewValueIsRequiredError("parcel_id or tracking_code")
	}
	if parcelID != nil {
		if err := parcelID.Validate(); err != nil {
			return GetParcelQuery{}, err
		}
	}
	return GetParcelQuery{parcelID: parcelID, trackingCode: trackingCode, guard: guard.NewConstructorGuard()}, nil
}

func (q GetParcelQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelQueryIsNotConstructed)
}

// ParcelView is the parcel as shown to its sender and to operators. The
// delivery code is left out; only the recipient gets it, by SMS.
type ParcelView struct {
	ID                 kernel.UUID
	TrackingCode       string
	SenderID           kernel.UUID
	RecipientName      string
	RecipientPhone     string
	Mode               parcel.DeliveryMode
	Status             parcel.Status
	OriginRelayID      *kernel.UUID
	DestinationRelayID *kernel.UUID
	RedirectRelayID    *kernel.UUID
	OriginPoint        *kernel.GeoPoint
	DeliveryPoint      *kernel.GeoPoint
	WeightKg           float64
	DeclaredValue      decimal.Decimal
	Insured            bool
	Express            bool
	QuotedPrice        decimal.Decimal
	PaidPrice          *decimal.Decimal
	PaymentStatus      parcel.PaymentStatus
	PickupCode         string
	CourierID          *kernel.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ExpiresAt          time.Time
}

// NewParcelView projects p for callers that already hold the aggregate.
func NewParcelView(p *parcel.Parcel) ParcelView {
	return ParcelView{
		ID:                 p.ID(),
		TrackingCode:       p.TrackingCode(),
		SenderID:           p.SenderID(),
		RecipientName:      p.RecipientName(),
		RecipientPhone:     p.RecipientPhone(),
		Mode:               p.Mode(),
		Status:             p.Status(),
		OriginRelayID:      p.OriginRelayID(),
		DestinationRelayID: p.DestinationRelayID(),
		RedirectRelayID:    p.RedirectRelayID(),
		OriginPoint:        p.OriginPoint(),
		DeliveryPoint:      p.DeliveryPoint(),
		WeightKg:           p.WeightKg(),
		DeclaredValue:      p.DeclaredValue(),
		Insured:            p.Insured(),
		Express:            p.Express(),
		QuotedPrice:        p.QuotedPrice(),
		PaidPrice:          p.PaidPrice(),
		PaymentStatus:      p.PaymentStatus(),
		PickupCode:         p.PickupCode().Value(),
		CourierID:          p.CourierID(),
		CreatedAt:          p.CreatedAt(),
		UpdatedAt:          p.UpdatedAt(),
		ExpiresAt:          p.ExpiresAt(),
	}
}
