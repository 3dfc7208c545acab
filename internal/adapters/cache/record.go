package cache

import (
	"encoding/json"
	"park-locator-service/internal/domain"
	"time"
)

// positionRecord is the serialized form shared by the file and redis backends.
type positionRecord struct {
	VehicleID  int64           `json:"vehicle_id"`
	Lat        float64         `json:"lat"`
	Lon        float64         `json:"lon"`
	InPark     bool            `json:"in_park"`
	ParkName   *string         `json:"park_name"`
	ObservedAt json.RawMessage `json:"time,omitempty"`
	CachedAt   float64         `json:"cached_at"`
}

func toRecord(p domain.CachedPosition) positionRecord {
	r := positionRecord{
		VehicleID:  p.VehicleID,
		Lat:        p.Lat,
		Lon:        p.Lon,
		InPark:     p.InPark,
		ObservedAt: p.ObservedAt,
		CachedAt:   float64(p.CachedAt.UnixMilli()) / 1000,
	}
	if p.ParkName != "" {
		name := p.ParkName
		r.ParkName = &name
	}
	return r
}

func (r positionRecord) position() domain.CachedPosition {
	p := domain.CachedPosition{
		VehicleID:  r.VehicleID,
		Lat:        r.Lat,
		Lon:        r.Lon,
		InPark:     r.InPark,
		ObservedAt: r.ObservedAt,
		CachedAt:   time.UnixMilli(int64(r.CachedAt * 1000)),
	}
	if r.ParkName != nil {
		p.ParkName = *r.ParkName
	}
	return p
}

// expired reports whether a record stamped at cachedAt is older than ttl.
func expired(cachedAt, now time.Time, ttl time.Duration) bool {
	return now.Sub(cachedAt) > ttl
}
