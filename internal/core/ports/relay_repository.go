package ports

import (
	"context"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/relay"
)

type RelayRepository interface {
	Add(ctx context.Context, r *relay.Relay) error
	Update(ctx context.Context, r *relay.Relay) error
	Get(ctx context.Context, id kernel.UUID) (*relay.Relay, error)
	ListActive(ctx context.Context) ([]*relay.Relay, error)
}
