package handlers

import (
	"net/http"
	"park-locator-service/internal/api/dto"
	"park-locator-service/internal/platform/logger"
	"park-locator-service/internal/platform/obs"
	"park-locator-service/internal/ports"
)

// ParkHandler exposes the configured park list.
type ParkHandler struct {
	Repo ports.ParkRepository
}

func (h *ParkHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	parks, err := h.Repo.ListParks(r.Context())
	if err != nil {
		logger.L().Error("list_parks_failed", "req_id", obs.RequestID(r.Context()), "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListParksResponse{
		Parks: make([]dto.ParkResponse, 0, len(parks)),
	}
	for _, p := range parks {
		res.Parks = append(res.Parks, dto.ParkResponse{
			Name:       p.Name,
			Polygon:    p.Ring(),
			ToleranceM: p.ToleranceMeters,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
