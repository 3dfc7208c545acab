package ports

import "context"

// Result of a depot-number lookup.
type VehicleMatch struct {
	VehicleID int64
	// False when no item matched the depot number and the first usable hit was taken.
	Exact bool
}

// Port: resolves a human-facing depot number to the upstream vehicle id.
type VehicleLocator interface {
	// Return domain.ErrVehicleNotFound when the search yields no usable id.
	Resolve(ctx context.Context, depotNumber string) (VehicleMatch, error)
}
