package ports

import (
	"context"
	"park-locator-service/internal/domain"
)

// Port: TTL-bounded last-known-good position store keyed by vehicle id.
// Implementations treat unreadable or expired records as absent.
type PositionCache interface {
	Get(ctx context.Context, vehicleID int64) (domain.CachedPosition, bool)
	// Overwrite the record for pos.VehicleID and stamp it with the current time.
	Put(ctx context.Context, pos domain.CachedPosition) error
}
