package domain

import (
	"math"
	"testing"
)

func square() []Coordinates {
	return []Coordinates{
		{Lon: 30.0, Lat: 59.0},
		{Lon: 30.0, Lat: 59.01},
		{Lon: 30.01, Lat: 59.01},
		{Lon: 30.01, Lat: 59.0},
	}
}

func TestMetersPerDegree(t *testing.T) {
	latM, lonM := MetersPerDegree(0)
	if latM != 111_132.0 {
		t.Fatalf("lat factor = %v, want 111132", latM)
	}
	if math.Abs(lonM-111_320.0) > 1e-6 {
		t.Fatalf("lon factor at equator = %v, want 111320", lonM)
	}

	_, lonM60 := MetersPerDegree(60)
	if math.Abs(lonM60-111_320.0/2) > 1e-6 {
		t.Fatalf("lon factor at 60 = %v, want %v", lonM60, 111_320.0/2)
	}
}

func TestPointInPolygon(t *testing.T) {
	poly := square()

	inside := []Coordinates{
		{Lon: 30.005, Lat: 59.005},
		{Lon: 30.0001, Lat: 59.0001},
		{Lon: 30.0099, Lat: 59.0099},
	}
	for _, pt := range inside {
		if !PointInPolygon(pt, poly) {
			t.Errorf("point %+v should be inside", pt)
		}
	}

	outside := []Coordinates{
		{Lon: 30.02, Lat: 59.005},
		{Lon: 29.99, Lat: 59.005},
		{Lon: 30.005, Lat: 59.02},
		{Lon: 30.005, Lat: 58.99},
	}
	for _, pt := range outside {
		if PointInPolygon(pt, poly) {
			t.Errorf("point %+v should be outside", pt)
		}
	}
}

func TestPointInPolygonConcave(t *testing.T) {
	// U shape open to the north.
	poly := []Coordinates{
		{Lon: 0, Lat: 0}, {Lon: 3, Lat: 0}, {Lon: 3, Lat: 3}, {Lon: 2, Lat: 3},
		{Lon: 2, Lat: 1}, {Lon: 1, Lat: 1}, {Lon: 1, Lat: 3}, {Lon: 0, Lat: 3},
	}

	if PointInPolygon(Coordinates{Lon: 1.5, Lat: 2}, poly) {
		t.Fatalf("point in the notch should be outside")
	}
	if !PointInPolygon(Coordinates{Lon: 0.5, Lat: 2}, poly) {
		t.Fatalf("point in the left arm should be inside")
	}
}

func TestPointInPolygonDegenerate(t *testing.T) {
	line := []Coordinates{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}}
	if PointInPolygon(Coordinates{Lon: 0.5, Lat: 0.5}, line) {
		t.Fatalf("polygon with 2 vertices must never contain a point")
	}
	if PointInPolygon(Coordinates{}, nil) {
		t.Fatalf("empty polygon must never contain a point")
	}

	onSegment := Coordinates{Lon: 0.5, Lat: 0.5}
	if PointInPolygonWithTolerance(onSegment, line, 1000) {
		t.Fatalf("polygon with 2 vertices must not match within tolerance")
	}
	if d := DistanceToPolygonMeters(onSegment, line); !math.IsInf(d, 1) {
		t.Fatalf("distance to 2-vertex polygon = %v, want +Inf", d)
	}
	if d := DistanceToPolygonMeters(onSegment, nil); !math.IsInf(d, 1) {
		t.Fatalf("distance to empty polygon = %v, want +Inf", d)
	}
}

func TestDistanceToPolygonMeters(t *testing.T) {
	poly := square()

	if d := DistanceToPolygonMeters(Coordinates{Lon: 30.005, Lat: 59.005}, poly); d != 0 {
		t.Fatalf("distance inside = %v, want 0", d)
	}

	pt := Coordinates{Lon: 30.02, Lat: 59.005}
	_, lonM := MetersPerDegree(pt.Lat)
	want := 0.01 * lonM
	got := DistanceToPolygonMeters(pt, poly)
	if math.Abs(got-want) > 0.01 {
		t.Fatalf("distance = %v, want %v", got, want)
	}

	// Nearest feature is a corner, not an edge interior.
	corner := Coordinates{Lon: 29.999, Lat: 58.999}
	latM, lonM2 := MetersPerDegree(corner.Lat)
	wantCorner := math.Hypot(0.001*lonM2, 0.001*latM)
	if got := DistanceToPolygonMeters(corner, poly); math.Abs(got-wantCorner) > 0.01 {
		t.Fatalf("corner distance = %v, want %v", got, wantCorner)
	}
}

func TestDistanceToPolygonSkipsZeroLengthEdges(t *testing.T) {
	poly := append(square(), Coordinates{Lon: 30.01, Lat: 59.0})
	pt := Coordinates{Lon: 30.02, Lat: 59.005}

	if a, b := DistanceToPolygonMeters(pt, poly), DistanceToPolygonMeters(pt, square()); math.Abs(a-b) > 1e-9 {
		t.Fatalf("duplicate vertex changed distance: %v vs %v", a, b)
	}
}

func TestDistancePositiveOutside(t *testing.T) {
	poly := square()
	points := []Coordinates{
		{Lon: 30.0100001, Lat: 59.005},
		{Lon: 31, Lat: 60},
		{Lon: 29.5, Lat: 58.5},
	}
	for _, pt := range points {
		if PointInPolygon(pt, poly) {
			t.Fatalf("point %+v unexpectedly inside", pt)
		}
		if d := DistanceToPolygonMeters(pt, poly); d <= 0 {
			t.Errorf("distance for %+v = %v, want > 0", pt, d)
		}
	}
}

func TestPointInPolygonWithTolerance(t *testing.T) {
	poly := square()

	if !PointInPolygonWithTolerance(Coordinates{Lon: 30.005, Lat: 59.005}, poly, 0) {
		t.Fatalf("inside point should match with zero tolerance")
	}
	if PointInPolygonWithTolerance(Coordinates{Lon: 30.02, Lat: 59.005}, poly, 50) {
		t.Fatalf("point ~570m away should not match with 50m tolerance")
	}

	// ~11m east of the eastern edge.
	near := Coordinates{Lon: 30.0102, Lat: 59.005}
	if PointInPolygonWithTolerance(near, poly, 5) {
		t.Fatalf("point ~11m away should not match with 5m tolerance")
	}
	if !PointInPolygonWithTolerance(near, poly, 15) {
		t.Fatalf("point ~11m away should match with 15m tolerance")
	}
}

func TestToleranceMatchesDirectDistance(t *testing.T) {
	poly := square()
	tolerances := []float64{0, 1, 5, 20, 100, 1000}

	for lon := 29.98; lon <= 30.03; lon += 0.0013 {
		for lat := 58.98; lat <= 59.03; lat += 0.0011 {
			pt := Coordinates{Lon: lon, Lat: lat}
			for _, tol := range tolerances {
				got := PointInPolygonWithTolerance(pt, poly, tol)

				var want bool
				if tol == 0 {
					want = PointInPolygon(pt, poly)
				} else {
					want = DistanceToPolygonMeters(pt, poly) <= tol
				}
				if got != want {
					t.Fatalf("tolerance %v at %+v: got %v, want %v", tol, pt, got, want)
				}
			}
		}
	}
}

func TestBoundsOf(t *testing.T) {
	b := BoundsOf(square())
	if b.MinLon != 30.0 || b.MaxLon != 30.01 || b.MinLat != 59.0 || b.MaxLat != 59.01 {
		t.Fatalf("unexpected bounds %+v", b)
	}
}
