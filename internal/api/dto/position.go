package dto

import (
	"encoding/json"
	"park-locator-service/internal/domain"
)

type PositionResponse struct {
	OK             bool            `json:"ok"`
	DepotNumber    string          `json:"depot_number"`
	VehicleID      *int64          `json:"vehicle_id"`
	Lat            *float64        `json:"lat"`
	Lon            *float64        `json:"lon"`
	Time           json.RawMessage `json:"time"`
	InPark         bool            `json:"in_park"`
	ParkName       *string         `json:"park_name"`
	MatchedExactly bool            `json:"matched_exactly"`
	FromCache      bool            `json:"from_cache"`
	Error          *string         `json:"error"`
	Detail         string          `json:"detail,omitempty"`
	StatusCode     int             `json:"status_code,omitempty"`
}

type BatchRequest struct {
	DepotNumbers []string `json:"depot_numbers"`
}

type BatchResponse struct {
	Results []PositionResponse `json:"results"`
}

// FromResolution maps a resolution to its wire form. Empty optional fields
// are rendered as null.
func FromResolution(r domain.VehicleResolution) PositionResponse {
	res := PositionResponse{
		OK:             r.OK,
		DepotNumber:    r.DepotNumber,
		VehicleID:      r.VehicleID,
		Lat:            r.Lat,
		Lon:            r.Lon,
		Time:           json.RawMessage("null"),
		InPark:         r.InPark,
		MatchedExactly: r.MatchedExactly,
		FromCache:      r.FromCache,
		Detail:         r.Detail,
		StatusCode:     r.StatusCode,
	}
	if len(r.ObservedAt) > 0 {
		res.Time = r.ObservedAt
	}
	if r.ParkName != "" {
		name := r.ParkName
		res.ParkName = &name
	}
	if r.Error != "" {
		kind := r.Error
		res.Error = &kind
	}
	return res
}

func FromResolutions(rs []domain.VehicleResolution) []PositionResponse {
	out := make([]PositionResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromResolution(r))
	}
	return out
}
