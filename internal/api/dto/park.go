package dto

type ParkResponse struct {
	Name       string      `json:"name"`
	Polygon    [][]float64 `json:"polygon"`
	ToleranceM float64     `json:"tolerance_m"`
}

type ListParksResponse struct {
	Parks []ParkResponse `json:"parks"`
}
