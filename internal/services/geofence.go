package services

import "park-locator-service/internal/domain"

// Classify returns the name of the park containing pt.
//
// The first pass checks parks in order against their own tolerance. Only when
// it finds nothing, and graceMeters > 0, a second pass accepts the first park
// within graceMeters of pt. The grace band keeps a vehicle standing on a
// boundary from flapping between in and out on GPS jitter.
func Classify(pt domain.Coordinates, parks []domain.Park, graceMeters float64) (string, bool) {
	for _, p := range parks {
		if domain.PointInPolygonWithTolerance(pt, p.Polygon, p.ToleranceMeters) {
			return p.Name, true
		}
	}

	if len(parks) == 0 || graceMeters <= 0 {
		return "", false
	}

	for _, p := range parks {
		if domain.DistanceToPolygonMeters(pt, p.Polygon) <= graceMeters {
			return p.Name, true
		}
	}

	return "", false
}
