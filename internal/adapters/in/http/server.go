package http

import (
	"log/slog"

	"pickupoint/internal/core/application/usecases/commands"
	"pickupoint/internal/core/application/usecases/queries"
)

// Handlers groups the use cases the API exposes.
type Handlers struct {
	// Command handlers
	CreateParcel          commands.CreateParcelCommandHandler
	TransitionParcel      commands.TransitionParcelCommandHandler
	RecordPayment         commands.RecordPaymentCommandHandler
	AcceptMission         commands.AcceptMissionCommandHandler
	ReleaseMission        commands.ReleaseMissionCommandHandler
	ConfirmPickup         commands.ConfirmPickupCommandHandler
	ConfirmDelivery       commands.ConfirmDeliveryCommandHandler
	UpdateMissionLocation commands.UpdateMissionLocationCommandHandler
	ReassignMission       commands.ReassignMissionCommandHandler
	CreateCourier         commands.CreateCourierCommandHandler
	UpdateCourierPosition commands.UpdateCourierPositionCommandHandler
	RegisterRelay         commands.RegisterRelayCommandHandler
	SetRelayActive        commands.SetRelayActiveCommandHandler
	RequestPayout         commands.RequestPayoutCommandHandler
	UpsertPricing         commands.UpsertPricingCommandHandler

	// Query handlers
	QuoteParcel           queries.QuoteParcelQueryHandler
	GetParcel             queries.GetParcelQueryHandler
	GetParcelTimeline     queries.GetParcelTimelineQueryHandler
	ListAvailableMissions queries.ListAvailableMissionsQueryHandler
	ListCourierMissions   queries.ListCourierMissionsQueryHandler
	GetMissionTrail       queries.GetMissionTrailQueryHandler
	Wallets               queries.WalletQueryHandler
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		h:      handlers,
		logger: logger.With("component", "http"),
	}
}
