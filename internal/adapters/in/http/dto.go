package http

import (
	"time"

	"pickupoint/internal/core/application/usecases/queries"
	"pickupoint/internal/core/domain/model/courier"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/pricing"
	"pickupoint/internal/core/domain/model/relay"
	"pickupoint/internal/core/domain/model/wallet"
	"pickupoint/internal/core/domain/services"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l *Location) point() (*kernel.GeoPoint, error) {
	if l == nil {
		return nil, nil
	}
	p, err := kernel.NewGeoPoint(l.Lat, l.Lng)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func locationOf(p *kernel.GeoPoint) *Location {
	if p == nil {
		return nil
	}
	return &Location{Lat: p.Lat(), Lng: p.Lng()}
}

func uuidOf(id kernel.UUID) openapi_types.UUID {
	return id.Bytes()
}

func optionalUUIDOf(id *kernel.UUID) *openapi_types.UUID {
	return kernel.OptionalToGoogle(id)
}

func kernelUUID(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromGoogle(id)
}

func optionalKernelUUID(id *openapi_types.UUID) (*kernel.UUID, error) {
	return kernel.OptionalUUIDFromGoogle(id)
}

// Requests.

// ParcelSpec carries what a sender fills in for a new parcel. Quotes use the
// pricing-relevant part of it.
type ParcelSpec struct {
	RecipientName      string              `json:"recipient_name"`
	RecipientPhone     string              `json:"recipient_phone"`
	Mode               string              `json:"mode"`
	OriginRelayID      *openapi_types.UUID `json:"origin_relay_id,omitempty"`
	DestinationRelayID *openapi_types.UUID `json:"destination_relay_id,omitempty"`
	Origin             *Location           `json:"origin,omitempty"`
	DeliveryPoint      *Location           `json:"delivery_point,omitempty"`
	WeightKg           float64             `json:"weight_kg"`
	DeclaredValue      decimal.Decimal     `json:"declared_value"`
	Insured            bool                `json:"insured"`
	Express            bool                `json:"express"`
}

type QuoteRequest struct {
	ParcelSpec
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

type TransitionRequest struct {
	Status   string         `json:"status"`
	Note     string         `json:"note"`
	Metadata map[string]any `json:"metadata"`
}

type PaymentWebhook struct {
	ParcelID     *openapi_types.UUID `json:"parcel_id,omitempty"`
	TrackingCode string              `json:"tracking_code"`
	Succeeded    bool                `json:"succeeded"`
	Amount       decimal.Decimal     `json:"amount"`
	Method       string              `json:"method"`
	Reference    string              `json:"reference"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type PickupRequest struct {
	Code string `json:"code"`
}

type DeliveryRequest struct {
	Code     string    `json:"code"`
	Position *Location `json:"position,omitempty"`
}

type ReassignRequest struct {
	CourierID openapi_types.UUID `json:"courier_id"`
	Reason    string             `json:"reason"`
}

type NewCourier struct {
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Position *Location `json:"position,omitempty"`
}

type CourierPositionRequest struct {
	Position  *Location `json:"position,omitempty"`
	Available *bool     `json:"available,omitempty"`
}

type NewRelay struct {
	Name     string             `json:"name"`
	OwnerID  openapi_types.UUID `json:"owner_id"`
	City     string             `json:"city"`
	Location *Location          `json:"location,omitempty"`
}

type RelayActiveRequest struct {
	Active bool `json:"active"`
}

type PayoutRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type PricingRuleRequest struct {
	Name              string              `json:"name"`
	Mode              string              `json:"mode"`
	OriginZoneID      *openapi_types.UUID `json:"origin_zone_id,omitempty"`
	DestinationZoneID *openapi_types.UUID `json:"destination_zone_id,omitempty"`
	BasePrice         decimal.Decimal     `json:"base_price"`
	PerKm             decimal.Decimal     `json:"per_km"`
	PerKg             decimal.Decimal     `json:"per_kg"`
	InsuranceRate     decimal.Decimal     `json:"insurance_rate"`
	MinPrice          decimal.Decimal     `json:"min_price"`
	MaxPrice          *decimal.Decimal    `json:"max_price,omitempty"`
	Active            bool                `json:"active"`
}

type PricingZoneRequest struct {
	Name     string               `json:"name"`
	RelayIDs []openapi_types.UUID `json:"relay_ids"`
	Active   bool                 `json:"active"`
}

// Responses.

type Created struct {
	ID openapi_types.UUID `json:"id"`
}

type Parcel struct {
	ID                 openapi_types.UUID  `json:"id"`
	TrackingCode       string              `json:"tracking_code"`
	SenderID           openapi_types.UUID  `json:"sender_id"`
	RecipientName      string              `json:"recipient_name"`
	RecipientPhone     string              `json:"recipient_phone"`
	Mode               string              `json:"mode"`
	Status             string              `json:"status"`
	OriginRelayID      *openapi_types.UUID `json:"origin_relay_id,omitempty"`
	DestinationRelayID *openapi_types.UUID `json:"destination_relay_id,omitempty"`
	RedirectRelayID    *openapi_types.UUID `json:"redirect_relay_id,omitempty"`
	Origin             *Location           `json:"origin,omitempty"`
	DeliveryPoint      *Location           `json:"delivery_point,omitempty"`
	WeightKg           float64             `json:"weight_kg"`
	DeclaredValue      decimal.Decimal     `json:"declared_value"`
	Insured            bool                `json:"insured"`
	Express            bool                `json:"express"`
	QuotedPrice        decimal.Decimal     `json:"quoted_price"`
	PaidPrice          *decimal.Decimal    `json:"paid_price,omitempty"`
	PaymentStatus      string              `json:"payment_status"`
	PickupCode         string              `json:"pickup_code"`
	CourierID          *openapi_types.UUID `json:"courier_id,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	ExpiresAt          time.Time           `json:"expires_at"`
}

func parcelOf(v queries.ParcelView) Parcel {
	return Parcel{
		ID:                 uuidOf(v.ID),
		TrackingCode:       v.TrackingCode,
		SenderID:           uuidOf(v.SenderID),
		RecipientName:      v.RecipientName,
		RecipientPhone:     v.RecipientPhone,
		Mode:               v.Mode.String(),
		Status:             v.Status.String(),
		OriginRelayID:      optionalUUIDOf(v.OriginRelayID),
		DestinationRelayID: optionalUUIDOf(v.DestinationRelayID),
		RedirectRelayID:    optionalUUIDOf(v.RedirectRelayID),
		Origin:             locationOf(v.OriginPoint),
		DeliveryPoint:      locationOf(v.DeliveryPoint),
		WeightKg:           v.WeightKg,
		DeclaredValue:      v.DeclaredValue,
		Insured:            v.Insured,
		Express:            v.Express,
		QuotedPrice:        v.QuotedPrice,
		PaidPrice:          v.PaidPrice,
		PaymentStatus:      v.PaymentStatus.String(),
		PickupCode:         v.PickupCode,
		CourierID:          optionalUUIDOf(v.CourierID),
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
		ExpiresAt:          v.ExpiresAt,
	}
}

type QuoteBreakdown struct {
	RuleID            *openapi_types.UUID        `json:"rule_id,omitempty"`
	BasePrice         decimal.Decimal            `json:"base_price"`
	DistanceKm        float64                    `json:"distance_km"`
	DistanceEstimated bool                       `json:"distance_estimated"`
	DistanceCost      decimal.Decimal            `json:"distance_cost"`
	WeightCost        decimal.Decimal            `json:"weight_cost"`
	InsuranceCost     decimal.Decimal            `json:"insurance_cost"`
	Subtotal          decimal.Decimal            `json:"subtotal"`
	Factors           map[string]decimal.Decimal `json:"factors,omitempty"`
	Coefficient       decimal.Decimal            `json:"coefficient"`
	ExpressMultiplier *decimal.Decimal           `json:"express_multiplier,omitempty"`
	MinPrice          decimal.Decimal            `json:"min_price"`
	MaxPrice          *decimal.Decimal           `json:"max_price,omitempty"`
}

type Quote struct {
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Breakdown QuoteBreakdown  `json:"breakdown"`
}

func quoteOf(price decimal.Decimal, b services.Breakdown) Quote {
	return Quote{
		Price:    price,
		Currency: b.Currency,
		Breakdown: QuoteBreakdown{
			RuleID:            optionalUUIDOf(b.RuleID),
			BasePrice:         b.BasePrice,
			DistanceKm:        b.DistanceKm,
			DistanceEstimated: b.DistanceEstimated,
			DistanceCost:      b.DistanceCost,
			WeightCost:        b.WeightCost,
			InsuranceCost:     b.InsuranceCost,
			Subtotal:          b.Subtotal,
			Factors:           b.Factors,
			Coefficient:       b.Coefficient,
			ExpressMultiplier: b.ExpressMultiplier,
			MinPrice:          b.MinPrice,
			MaxPrice:          b.MaxPrice,
		},
	}
}

type TimelineEntry struct {
	ID        openapi_types.UUID  `json:"id"`
	Kind      string              `json:"kind"`
	From      *string             `json:"from_status,omitempty"`
	To        *string             `json:"to_status,omitempty"`
	ActorID   *openapi_types.UUID `json:"actor_id,omitempty"`
	ActorRole string              `json:"actor_role"`
	Note      string              `json:"note,omitempty"`
	Metadata  map[string]any      `json:"metadata,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

func timelineOf(entries []queries.TimelineEntry) []TimelineEntry {
	out := make([]TimelineEntry, len(entries))
	for i, e := range entries {
		out[i] = TimelineEntry{
			ID:        uuidOf(e.ID),
			Kind:      string(e.Kind),
			ActorID:   optionalUUIDOf(e.ActorID),
			ActorRole: e.ActorRole.String(),
			Note:      e.Note,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		}
		if e.From != nil {
			from := e.From.String()
			out[i].From = &from
		}
		if e.To != nil {
			to := e.To.String()
			out[i].To = &to
		}
	}
	return out
}

type Place struct {
	Kind     string              `json:"kind,omitempty"`
	RelayID  *openapi_types.UUID `json:"relay_id,omitempty"`
	Label    string              `json:"label"`
	City     string              `json:"city,omitempty"`
	Location *Location           `json:"location,omitempty"`
}

func placeOf(p mission.Place) Place {
	return Place{
		Kind:     p.Kind.String(),
		RelayID:  optionalUUIDOf(p.RelayID),
		Label:    p.Label,
		City:     p.City,
		Location: locationOf(p.Point),
	}
}

type Mission struct {
	ID             openapi_types.UUID  `json:"id"`
	ParcelID       openapi_types.UUID  `json:"parcel_id"`
	Leg            string              `json:"leg"`
	Status         string              `json:"status"`
	CourierID      *openapi_types.UUID `json:"courier_id,omitempty"`
	Pickup         Place               `json:"pickup"`
	Delivery       Place               `json:"delivery"`
	Earnings       decimal.Decimal     `json:"earnings"`
	Broadcast      bool                `json:"broadcast"`
	OfferExpiresAt *time.Time          `json:"offer_expires_at,omitempty"`
	LastLocation   *Location           `json:"last_location,omitempty"`
	EtaSeconds     *int                `json:"eta_seconds,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func missionOf(m *mission.Mission) Mission {
	cascade := m.Cascade()
	return Mission{
		ID:             uuidOf(m.ID()),
		ParcelID:       uuidOf(m.ParcelID()),
		Leg:            m.Leg().String(),
		Status:         m.Status().String(),
		CourierID:      optionalUUIDOf(m.CourierID()),
		Pickup:         placeOf(m.Pickup()),
		Delivery:       placeOf(m.Delivery()),
		Earnings:       m.Earnings(),
		Broadcast:      cascade.Broadcast,
		OfferExpiresAt: cascade.OfferExpiresAt,
		LastLocation:   locationOf(m.LastLocation()),
		EtaSeconds:     m.EtaSeconds(),
		CreatedAt:      m.CreatedAt(),
		UpdatedAt:      m.UpdatedAt(),
	}
}

type MissionSummary struct {
	ID             openapi_types.UUID `json:"id"`
	ParcelID       openapi_types.UUID `json:"parcel_id"`
	Leg            string             `json:"leg"`
	Status         string             `json:"status"`
	Pickup         Place              `json:"pickup"`
	Delivery       Place              `json:"delivery"`
	Earnings       decimal.Decimal    `json:"earnings"`
	Broadcast      bool               `json:"broadcast"`
	OfferExpiresAt *time.Time         `json:"offer_expires_at,omitempty"`
	DistanceKm     *float64           `json:"distance_km,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

func summariesOf(missions []queries.MissionSummary) []MissionSummary {
	out := make([]MissionSummary, len(missions))
	for i, m := range missions {
		out[i] = MissionSummary{
			ID:             uuidOf(m.ID),
			ParcelID:       uuidOf(m.ParcelID),
			Leg:            m.Leg,
			Status:         m.Status.String(),
			Pickup:         Place{Label: m.Pickup.Label, City: m.Pickup.City, Location: locationOf(m.Pickup.Point)},
			Delivery:       Place{Label: m.Delivery.Label, City: m.Delivery.City, Location: locationOf(m.Delivery.Point)},
			Earnings:       m.Earnings,
			Broadcast:      m.Broadcast,
			OfferExpiresAt: m.OfferExpiresAt,
			DistanceKm:     m.DistanceKm,
			CreatedAt:      m.CreatedAt,
		}
	}
	return out
}

type TrailPoint struct {
	Lat float64   `json:"lat"`
	Lng float64   `json:"lng"`
	At  time.Time `json:"at"`
}

type MissionTrail struct {
	MissionID      openapi_types.UUID  `json:"mission_id"`
	Status         string              `json:"status"`
	CourierID      *openapi_types.UUID `json:"courier_id,omitempty"`
	LastLocation   *Location           `json:"last_location,omitempty"`
	LastLocationAt *time.Time          `json:"last_location_at,omitempty"`
	EtaSeconds     *int                `json:"eta_seconds,omitempty"`
	Points         []TrailPoint        `json:"points"`
}

func trailOf(v queries.MissionTrailView) MissionTrail {
	points := make([]TrailPoint, len(v.Points))
	for i, p := range v.Points {
		points[i] = TrailPoint{Lat: p.Point.Lat(), Lng: p.Point.Lng(), At: p.At}
	}
	return MissionTrail{
		MissionID:      uuidOf(v.MissionID),
		Status:         v.Status.String(),
		CourierID:      optionalUUIDOf(v.CourierID),
		LastLocation:   locationOf(v.LastLocation),
		LastLocationAt: v.LastLocationAt,
		EtaSeconds:     v.EtaSeconds,
		Points:         points,
	}
}

type Courier struct {
	ID         openapi_types.UUID `json:"id"`
	Name       string             `json:"name"`
	Phone      string             `json:"phone"`
	Available  bool               `json:"available"`
	Position   *Location          `json:"position,omitempty"`
	PositionAt *time.Time         `json:"position_at,omitempty"`
}

func courierOf(c *courier.Courier) Courier {
	return Courier{
		ID:         uuidOf(c.ID()),
		Name:       c.Name(),
		Phone:      c.Phone(),
		Available:  c.IsAvailable(),
		Position:   locationOf(c.Position()),
		PositionAt: c.PositionAt(),
	}
}

type Relay struct {
	ID       openapi_types.UUID `json:"id"`
	Name     string             `json:"name"`
	OwnerID  openapi_types.UUID `json:"owner_id"`
	City     string             `json:"city"`
	Location *Location          `json:"location,omitempty"`
	Active   bool               `json:"active"`
}

func relayOf(r *relay.Relay) Relay {
	return Relay{
		ID:       uuidOf(r.ID()),
		Name:     r.Name(),
		OwnerID:  uuidOf(r.OwnerID()),
		City:     r.City(),
		Location: locationOf(r.Point()),
		Active:   r.IsActive(),
	}
}

type Wallet struct {
	ID        openapi_types.UUID `json:"id"`
	OwnerID   openapi_types.UUID `json:"owner_id"`
	OwnerKind string             `json:"owner_kind"`
	Balance   decimal.Decimal    `json:"balance"`
	Pending   decimal.Decimal    `json:"pending"`
	Currency  string             `json:"currency"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func walletOfView(v queries.WalletView) Wallet {
	return Wallet{
		ID:        uuidOf(v.ID),
		OwnerID:   uuidOf(v.OwnerID),
		OwnerKind: v.OwnerKind.String(),
		Balance:   v.Balance,
		Pending:   v.Pending,
		Currency:  v.Currency,
		UpdatedAt: v.UpdatedAt,
	}
}

func walletOf(w *wallet.Wallet) Wallet {
	return Wallet{
		ID:        uuidOf(w.ID()),
		OwnerID:   uuidOf(w.OwnerID()),
		OwnerKind: w.OwnerKind().String(),
		Balance:   w.Balance(),
		Pending:   w.Pending(),
		Currency:  w.Currency(),
		UpdatedAt: w.UpdatedAt(),
	}
}

type Transaction struct {
	ID          openapi_types.UUID  `json:"id"`
	ParcelID    *openapi_types.UUID `json:"parcel_id,omitempty"`
	Amount      decimal.Decimal     `json:"amount"`
	Kind        string              `json:"kind"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"created_at"`
}

func transactionsOf(txs []queries.TransactionView) []Transaction {
	out := make([]Transaction, len(txs))
	for i, tx := range txs {
		out[i] = Transaction{
			ID:          uuidOf(tx.ID),
			ParcelID:    optionalUUIDOf(tx.ParcelID),
			Amount:      tx.Amount,
			Kind:        tx.Kind.String(),
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt,
		}
	}
	return out
}

type Payout struct {
	Wallet      Wallet      `json:"wallet"`
	Transaction Transaction `json:"transaction"`
}

func payoutOf(w *wallet.Wallet, tx *wallet.Transaction) Payout {
	return Payout{
		Wallet: walletOf(w),
		Transaction: Transaction{
			ID:          uuidOf(tx.ID),
			ParcelID:    optionalUUIDOf(tx.ParcelID),
			Amount:      tx.Amount,
			Kind:        tx.Kind.String(),
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt,
		},
	}
}

type PricingRule struct {
	ID                openapi_types.UUID  `json:"id"`
	Name              string              `json:"name"`
	Mode              string              `json:"mode"`
	OriginZoneID      *openapi_types.UUID `json:"origin_zone_id,omitempty"`
	DestinationZoneID *openapi_types.UUID `json:"destination_zone_id,omitempty"`
	BasePrice         decimal.Decimal     `json:"base_price"`
	PerKm             decimal.Decimal     `json:"per_km"`
	PerKg             decimal.Decimal     `json:"per_kg"`
	InsuranceRate     decimal.Decimal     `json:"insurance_rate"`
	MinPrice          decimal.Decimal     `json:"min_price"`
	MaxPrice          *decimal.Decimal    `json:"max_price,omitempty"`
	Active            bool                `json:"active"`
}

func ruleOf(r *pricing.Rule) PricingRule {
	return PricingRule{
		ID:                uuidOf(r.ID),
		Name:              r.Name,
		Mode:              r.Mode.String(),
		OriginZoneID:      optionalUUIDOf(r.OriginZoneID),
		DestinationZoneID: optionalUUIDOf(r.DestinationZoneID),
		BasePrice:         r.BasePrice,
		PerKm:             r.PerKm,
		PerKg:             r.PerKg,
		InsuranceRate:     r.InsuranceRate,
		MinPrice:          r.MinPrice,
		MaxPrice:          r.MaxPrice,
		Active:            r.Active,
	}
}

type PricingZone struct {
	ID       openapi_types.UUID   `json:"id"`
	Name     string               `json:"name"`
	RelayIDs []openapi_types.UUID `json:"relay_ids"`
	Active   bool                 `json:"active"`
}

func zoneOf(z *pricing.Zone) PricingZone {
	ids := make([]openapi_types.UUID, len(z.RelayIDs))
	for i, id := range z.RelayIDs {
		ids[i] = uuidOf(id)
	}
	return PricingZone{ID: uuidOf(z.ID), Name: z.Name, RelayIDs: ids, Active: z.Active}
}
