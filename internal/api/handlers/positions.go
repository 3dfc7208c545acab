package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"park-locator-service/internal/api/dto"
	"park-locator-service/internal/domain"
	"park-locator-service/internal/platform/logger"
	"park-locator-service/internal/platform/obs"
	"park-locator-service/internal/services"
	"strings"
)

const maxBatchBody = 1 << 20

type PositionHandler struct {
	Resolver services.PositionResolver
	Batcher  *services.BatchResolver
	BatchMax int
}

// Get resolves one depot number given as ?depot=.
// Normalized failures are reported with 200; an upstream failure with no
// cached fallback yields 502.
func (h *PositionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	depot := strings.TrimSpace(r.URL.Query().Get("depot"))
	if !domain.IsValidDepotNumber(depot) {
		writeError(w, r, http.StatusBadRequest, domain.ErrKindInvalidDepotNumber)
		return
	}

	res, err := h.Resolver.Resolve(r.Context(), depot)
	if err != nil {
		logger.L().Warn("resolve_failed", "req_id", obs.RequestID(r.Context()), "depot_number", depot, "err", err)
		writeJSON(w, r, http.StatusBadGateway, dto.FromResolution(services.ResolutionFromError(depot, err)))
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromResolution(res))
}

// Batch resolves a list of depot numbers. Results follow request order;
// malformed entries are reported in place as invalid_depot_number.
func (h *PositionHandler) Batch(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	var req dto.BatchRequest

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBatchBody))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if len(req.DepotNumbers) == 0 {
		writeError(w, r, http.StatusBadRequest, "depot_numbers is required")
		return
	}
	if h.BatchMax > 0 && len(req.DepotNumbers) > h.BatchMax {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("at most %d depot_numbers per request", h.BatchMax))
		return
	}

	results := make([]domain.VehicleResolution, len(req.DepotNumbers))
	valid := make([]string, 0, len(req.DepotNumbers))
	slots := make([]int, 0, len(req.DepotNumbers))
	for i, d := range req.DepotNumbers {
		d = strings.TrimSpace(d)
		if !domain.IsValidDepotNumber(d) {
			results[i] = domain.Failed(d, domain.ErrKindInvalidDepotNumber, "")
			continue
		}
		valid = append(valid, d)
		slots = append(slots, i)
	}

	for j, res := range h.Batcher.ResolveAll(r.Context(), valid) {
		results[slots[j]] = res
	}

	writeJSON(w, r, http.StatusOK, dto.BatchResponse{Results: dto.FromResolutions(results)})
}
