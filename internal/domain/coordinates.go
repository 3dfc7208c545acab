package domain

// Immutable geographic coordinates (longitude, latitude) in WGS84 degrees.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat], the order used by park files and the upstream WKT.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }
