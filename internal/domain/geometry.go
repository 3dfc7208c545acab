package domain

import "math"

const (
	metersPerDegreeLat     = 111_132.0
	metersPerDegreeEquator = 111_320.0
)

// MetersPerDegree returns the local scale factors (meters per degree of
// latitude, meters per degree of longitude) at the given latitude.
func MetersPerDegree(latDeg float64) (float64, float64) {
	return metersPerDegreeLat, metersPerDegreeEquator * math.Cos(latDeg*math.Pi/180)
}

// PointInPolygon runs an even-odd ray casting test.
// A point lying exactly on an edge may classify either way.
func PointInPolygon(pt Coordinates, polygon []Coordinates) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	for i := 0; i < n; i++ {
		a := polygon[i]
		b := polygon[(i+1)%n]

		// The straddle test guarantees a.Lat != b.Lat below.
		if (a.Lat > pt.Lat) != (b.Lat > pt.Lat) {
			x := (b.Lon-a.Lon)*(pt.Lat-a.Lat)/(b.Lat-a.Lat) + a.Lon
			if pt.Lon < x {
				inside = !inside
			}
		}
	}
	return inside
}

// DistanceToPolygonMeters returns 0 for points inside the polygon, otherwise
// the smallest point-to-edge distance in meters using a local equirectangular
// projection at the point's latitude. Zero-length edges are skipped.
// A polygon with fewer than 3 vertices or without usable edges is infinitely
// far away.
func DistanceToPolygonMeters(pt Coordinates, polygon []Coordinates) float64 {
	if len(polygon) < 3 {
		return math.Inf(1)
	}
	if PointInPolygon(pt, polygon) {
		return 0
	}
	return minEdgeDistanceMeters(pt, polygon)
}

// PointInPolygonWithTolerance reports whether the point is inside the polygon
// or within toleranceMeters of one of its edges.
func PointInPolygonWithTolerance(pt Coordinates, polygon []Coordinates, toleranceMeters float64) bool {
	if PointInPolygon(pt, polygon) {
		return true
	}
	if toleranceMeters <= 0 || len(polygon) < 3 {
		return false
	}

	// Cheap rejection: the padded box contains every point within tolerance.
	latM, lonM := MetersPerDegree(pt.Lat)
	epsLon := toleranceMeters / math.Max(lonM, 1e-9)
	epsLat := toleranceMeters / latM

	box := BoundsOf(polygon)
	if pt.Lon < box.MinLon-epsLon || pt.Lon > box.MaxLon+epsLon ||
		pt.Lat < box.MinLat-epsLat || pt.Lat > box.MaxLat+epsLat {
		return false
	}

	return minEdgeDistanceMeters(pt, polygon) <= toleranceMeters
}

// Axis-aligned bounding box in degrees.
type Bounds struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

func BoundsOf(polygon []Coordinates) Bounds {
	b := Bounds{
		MinLon: math.Inf(1),
		MinLat: math.Inf(1),
		MaxLon: math.Inf(-1),
		MaxLat: math.Inf(-1),
	}
	for _, c := range polygon {
		b.MinLon = math.Min(b.MinLon, c.Lon)
		b.MinLat = math.Min(b.MinLat, c.Lat)
		b.MaxLon = math.Max(b.MaxLon, c.Lon)
		b.MaxLat = math.Max(b.MaxLat, c.Lat)
	}
	return b
}

func minEdgeDistanceMeters(pt Coordinates, polygon []Coordinates) float64 {
	latM, lonM := MetersPerDegree(pt.Lat)

	best := math.Inf(1)
	n := len(polygon)
	for i := 0; i < n; i++ {
		a := polygon[i]
		b := polygon[(i+1)%n]

		dx := b.Lon - a.Lon
		dy := b.Lat - a.Lat
		if dx == 0 && dy == 0 {
			continue
		}

		t := ((pt.Lon-a.Lon)*dx + (pt.Lat-a.Lat)*dy) / (dx*dx + dy*dy)
		t = math.Max(0, math.Min(1, t))

		dLon := (pt.Lon - (a.Lon + t*dx)) * lonM
		dLat := (pt.Lat - (a.Lat + t*dy)) * latM
		if d := math.Hypot(dLon, dLat); d < best {
			best = d
		}
	}
	return best
}
