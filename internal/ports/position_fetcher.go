package ports

import (
	"context"
	"park-locator-service/internal/domain"
)

// Port: retrieves the live position of a vehicle.
type PositionFetcher interface {
	// Return the raw position; coordinates are nil when they could not be parsed.
	Fetch(ctx context.Context, vehicleID int64) (domain.RawPosition, error)
}
