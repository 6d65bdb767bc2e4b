package http

import (
	"errors"
	"net/http"

	"pickupoint/internal/core/application/usecases/commands"
	"pickupoint/internal/core/application/usecases/queries"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/wallet"
	"pickupoint/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// walletOwner resolves the path owner and checks the caller may see it.
func walletOwner(ctx echo.Context, ownerKind string, ownerID openapi_types.UUID) (kernel.UUID, wallet.OwnerKind, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return kernel.UUID{}, wallet.OwnerUnknown, err
	}
	kind, kindErr := wallet.ParseOwnerKind(ownerKind)
	id, idErr := kernelUUID(ownerID)
	if err = errors.Join(kindErr, idErr); err != nil {
		return kernel.UUID{}, wallet.OwnerUnknown, err
	}
	if !actsFor(actor, id) {
		return kernel.UUID{}, wallet.OwnerUnknown, errs.NewNotPermittedError(actor.Role, "access another owner's wallet")
	}
	return id, kind, nil
}

// GetWallet handles GET /api/v1/wallets/{ownerKind}/{ownerId}.
func (s *Server) GetWallet(ctx echo.Context, ownerKind string, ownerID openapi_types.UUID) error {
	id, kind, err := walletOwner(ctx, ownerKind, ownerID)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetWalletQuery(id, kind)
	if err != nil {
		return s.fail(ctx, err)
	}

	view, err := s.h.Wallets.GetWallet(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, walletOfView(view))
}

// ListWalletTransactions handles GET /api/v1/wallets/{ownerKind}/{ownerId}/transactions - newest first.
func (s *Server) ListWalletTransactions(
	ctx echo.Context,
	ownerKind string,
	ownerID openapi_types.UUID,
	params ListWalletTransactionsParams,
) error {
	id, kind, err := walletOwner(ctx, ownerKind, ownerID)
	if err != nil {
		return s.fail(ctx, err)
	}
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}
	query, err := queries.NewListWalletTransactionsQuery(id, kind, limit)
	if err != nil {
		return s.fail(ctx, err)
	}

	txs, err := s.h.Wallets.ListTransactions(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, transactionsOf(txs))
}

// RequestPayout handles POST /api/v1/wallets/{ownerKind}/{ownerId}/payouts -
// moves an amount from the balance to pending payout.
func (s *Server) RequestPayout(ctx echo.Context, ownerKind string, ownerID openapi_types.UUID) error {
	id, kind, err := walletOwner(ctx, ownerKind, ownerID)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req PayoutRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	cmd, err := commands.NewRequestPayoutCommand(id, kind, req.Amount)
	if err != nil {
		return s.fail(ctx, err)
	}

	w, tx, err := s.h.RequestPayout.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, payoutOf(w, tx))
}
