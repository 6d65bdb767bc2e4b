// Package pricing holds the admin-managed tariff data: zones grouping relays
// and rules giving per-mode, optionally per-zone-pair, tariffs.
package pricing

import (
	"slices"
	"strings"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/pkg/errs"
)

// Zone is a named group of relays sharing a tariff.
type Zone struct {
	ID       kernel.UUID
	Name     string
	RelayIDs []kernel.UUID
	Active   bool
}

func NewZone(id kernel.UUID, name string, relayIDs []kernel.UUID, active bool) (*Zone, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	return &Zone{ID: id, Name: name, RelayIDs: slices.Clone(relayIDs), Active: active}, nil
}

// Contains reports whether relayID belongs to the zone.
func (z *Zone) Contains(relayID kernel.UUID) bool {
	return slices.ContainsFunc(z.RelayIDs, relayID.IsEqual)
}
