package commands

import (
	"context"
	"log/slog"

	"pickupoint/internal/core/domain/model/pricing"
	"pickupoint/internal/core/ports"
)

// UpsertPricingCommandHandler stores tariff changes and drops the quote
// cache. A cache that cannot be invalidated is logged; its entries expire
// on their own.
type UpsertPricingCommandHandler struct {
	uowFactory PricingUoWFactory
	cache      ports.PricingCacheInvalidator
	logger     *slog.Logger
}

// NewUpsertPricingCommandHandler accepts a nil cache when quotes read the
// repository directly.
func NewUpsertPricingCommandHandler(
	uowFactory PricingUoWFactory,
	cache ports.PricingCacheInvalidator,
	logger *slog.Logger,
) UpsertPricingCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return UpsertPricingCommandHandler{uowFactory: uowFactory, cache: cache, logger: logger}
}

func (h UpsertPricingCommandHandler) HandleRule(ctx context.Context, cmd UpsertPricingRuleCommand) (*pricing.Rule, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	rule := cmd.Rule()
	err := h.write(ctx, func(repo ports.PricingRepository) error {
		return repo.UpsertRule(ctx, &rule)
	})
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (h UpsertPricingCommandHandler) HandleZone(ctx context.Context, cmd UpsertPricingZoneCommand) (*pricing.Zone, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	zone := cmd.Zone()
	err := h.write(ctx, func(repo ports.PricingRepository) error {
		return repo.UpsertZone(ctx, &zone)
	})
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func (h UpsertPricingCommandHandler) write(ctx context.Context, fn func(repo ports.PricingRepository) error) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := fn(uow.PricingRepository()); err != nil {
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			h.logger.WarnContext(ctx, "pricing cache invalidation failed", "error", err)
		}
	}
	return nil
}
