package domain

import (
	"fmt"
	"strings"
)

const defaultParkName = "park"

// A named depot area bounded by a polygon ring.
// The ring is stored without the duplicate closing vertex. Rings with fewer
// than 3 vertices never contain any point.
type Park struct {
	Name            string
	Polygon         []Coordinates
	ToleranceMeters float64
}

// NewPark builds a Park from [lon, lat] pairs as found in park files.
// A trailing vertex equal to the first one is dropped.
func NewPark(name string, ring [][]float64, toleranceMeters float64) (Park, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultParkName
	}

	if toleranceMeters < 0 {
		return Park{}, fmt.Errorf("new park %q: tolerance must be non-negative, got %v", name, toleranceMeters)
	}

	polygon := make([]Coordinates, 0, len(ring))
	for i, pair := range ring {
		if len(pair) < 2 {
			return Park{}, fmt.Errorf("new park %q: vertex %d: expected [lon, lat]", name, i)
		}
		polygon = append(polygon, Coordinates{Lon: pair[0], Lat: pair[1]})
	}

	if n := len(polygon); n >= 2 && polygon[0] == polygon[n-1] {
		polygon = polygon[:n-1]
	}

	return Park{Name: name, Polygon: polygon, ToleranceMeters: toleranceMeters}, nil
}

// Ring returns the polygon as [lon, lat] pairs.
func (p Park) Ring() [][]float64 {
	out := make([][]float64, 0, len(p.Polygon))
	for _, c := range p.Polygon {
		out = append(out, c.CoordsToList())
	}
	return out
}

// ValidateParks checks that park names are unique.
func ValidateParks(parks []Park) error {
	seen := make(map[string]struct{}, len(parks))
	for _, p := range parks {
		if _, ok := seen[p.Name]; ok {
			return fmt.Errorf("validate parks: duplicate park name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}
