package wallet

import (
	"time"

	"pickupoint/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Settlement records that a parcel's revenue was distributed. There is at
// most one per parcel.
type Settlement struct {
	ParcelID         kernel.UUID
	Price            decimal.Decimal
	Platform         decimal.Decimal
	OriginRelay      decimal.Decimal
	DestinationRelay decimal.Decimal
	Courier          decimal.Decimal
	CreatedAt        time.Time
}
