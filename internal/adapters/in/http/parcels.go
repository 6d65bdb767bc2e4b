package http

import (
	"errors"
	"net/http"

	"pickupoint/internal/core/application/usecases/commands"
	"pickupoint/internal/core/application/usecases/queries"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

func (r ParcelSpec) toSpec(senderID kernel.UUID) (parcel.Spec, error) {
	mode, modeErr := parcel.ParseDeliveryMode(r.Mode)
	originRelay, originErr := optionalKernelUUID(r.OriginRelayID)
	destinationRelay, destinationErr := optionalKernelUUID(r.DestinationRelayID)
	origin, originPointErr := r.Origin.point()
	delivery, deliveryPointErr := r.DeliveryPoint.point()
	if err := errors.Join(modeErr, originErr, destinationErr, originPointErr, deliveryPointErr); err != nil {
		return parcel.Spec{}, err
	}
	return parcel.Spec{
		SenderID:           senderID,
		RecipientName:      r.RecipientName,
		RecipientPhone:     r.RecipientPhone,
		Mode:               mode,
		OriginRelayID:      originRelay,
		DestinationRelayID: destinationRelay,
		OriginPoint:        origin,
		DeliveryPoint:      delivery,
		WeightKg:           r.WeightKg,
		DeclaredValue:      r.DeclaredValue,
		Insured:            r.Insured,
		Express:            r.Express,
	}, nil
}

// QuoteParcel handles POST /api/v1/quotes - prices a parcel before it exists.
func (s *Server) QuoteParcel(ctx echo.Context) error {
	var req QuoteRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	spec, err := req.toSpec(kernel.UUID{})
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewQuoteParcelQuery(spec, req.DistanceKm)
	if err != nil {
		return s.fail(ctx, err)
	}

	quote, err := s.h.QuoteParcel.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, quoteOf(quote.Price, quote.Breakdown))
}

// CreateParcel handles POST /api/v1/parcels - registers a parcel for the calling sender.
func (s *Server) CreateParcel(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req ParcelSpec
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	spec, err := req.toSpec(*actor.ID)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewCreateParcelCommand(spec)
	if err != nil {
		return s.fail(ctx, err)
	}

	p, err := s.h.CreateParcel.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, parcelOf(queries.NewParcelView(p)))
}

// GetParcel handles GET /api/v1/parcels/{parcelId}.
func (s *Server) GetParcel(ctx echo.Context, parcelID openapi_types.UUID) error {
	id, err := kernelUUID(parcelID)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.getParcel(ctx, &id, "")
}

// TrackParcel handles GET /api/v1/parcels/track/{trackingCode}.
func (s *Server) TrackParcel(ctx echo.Context, trackingCode string) error {
	return s.getParcel(ctx, nil, trackingCode)
}

func (s *Server) getParcel(ctx echo.Context, id *kernel.UUID, trackingCode string) error {
	query, err := queries.NewGetParcelQuery(id, trackingCode)
	if err != nil {
		return s.fail(ctx, err)
	}
	view, err := s.h.GetParcel.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, parcelOf(view))
}

// GetParcelTimeline handles GET /api/v1/parcels/{parcelId}/timeline - the audit trail, oldest first.
func (s *Server) GetParcelTimeline(ctx echo.Context, parcelID openapi_types.UUID) error {
	id, err := kernelUUID(parcelID)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetParcelTimelineQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	entries, err := s.h.GetParcelTimeline.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, timelineOf(entries))
}

// TransitionParcel handles POST /api/v1/parcels/{parcelId}/transitions - moves the parcel to a new status.
func (s *Server) TransitionParcel(ctx echo.Context, parcelID openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req TransitionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	id, idErr := kernelUUID(parcelID)
	target, statusErr := parcel.ParseStatus(req.Status)
	if err = errors.Join(idErr, statusErr); err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewTransitionParcelCommand(id, target, actor, req.Note, req.Metadata)
	if err != nil {
		return s.fail(ctx, err)
	}

	p, err := s.h.TransitionParcel.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, parcelOf(queries.NewParcelView(p)))
}

// RecordPayment handles POST /api/v1/payments/webhook - the gateway's paid or failed signal.
func (s *Server) RecordPayment(ctx echo.Context) error {
	var req PaymentWebhook
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	id, err := optionalKernelUUID(req.ParcelID)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewRecordPaymentCommand(id, req.TrackingCode, req.Succeeded, req.Amount, req.Method, req.Reference)
	if err != nil {
		return s.fail(ctx, err)
	}

	p, err := s.h.RecordPayment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, parcelOf(queries.NewParcelView(p)))
}
