package domain

import (
	"encoding/json"
	"time"
)

// Live position record as returned by the upstream tracking API.
// Lat/Lon are nil when the upstream coordinate field could not be parsed.
// ObservedAt is the upstream timestamp passed through verbatim (string or number).
type RawPosition struct {
	VehicleID   int64
	DepotNumber string
	Lat         *float64
	Lon         *float64
	ObservedAt  json.RawMessage
	Raw         json.RawMessage
}

// HasCoords reports whether both coordinates were parsed.
func (p RawPosition) HasCoords() bool { return p.Lat != nil && p.Lon != nil }

// Last known good position of a vehicle, keyed by VehicleID.
type CachedPosition struct {
	VehicleID  int64
	Lat        float64
	Lon        float64
	InPark     bool
	ParkName   string
	ObservedAt json.RawMessage
	CachedAt   time.Time
}

// Per-vehicle outcome handed to every consumer of the pipeline.
// Either OK is true and the position fields are set, or OK is false and
// Error holds one of the ErrKind constants.
type VehicleResolution struct {
	OK          bool
	DepotNumber string
	VehicleID   *int64
	Lat         *float64
	Lon         *float64
	ObservedAt  json.RawMessage
	InPark      bool
	ParkName    string

	// MatchedExactly is false when the locator fell back to the first search hit.
	MatchedExactly bool
	// FromCache is set when the position came from the fallback cache.
	FromCache bool

	Error      string
	Detail     string
	StatusCode int
}

// Failed builds a resolution carrying an error kind.
func Failed(depotNumber, kind, detail string) VehicleResolution {
	return VehicleResolution{
		OK:          false,
		DepotNumber: depotNumber,
		Error:       kind,
		Detail:      detail,
	}
}
