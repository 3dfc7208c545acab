package ports

import (
	"context"
	"park-locator-service/internal/domain"
)

// Port: source of park definitions. Order is significant for classification.
type ParkRepository interface {
	ListParks(ctx context.Context) ([]domain.Park, error)
}
