package api

import (
	"net/http"
	"park-locator-service/internal/api/handlers"
	"park-locator-service/internal/platform/metrics"
	"park-locator-service/internal/ports"
	"park-locator-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	resolver services.PositionResolver,
	batch *services.BatchResolver,
	parks ports.ParkRepository,
	batchMax int,
) http.Handler {
	mux := http.NewServeMux()

	posHandler := &handlers.PositionHandler{
		Resolver: resolver,
		Batcher:  batch,
		BatchMax: batchMax,
	}
	parkHandler := &handlers.ParkHandler{Repo: parks}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/positions", posHandler.Get)
	mux.HandleFunc("/positions/batch", posHandler.Batch)
	mux.HandleFunc("/parks", parkHandler.List)
	mux.Handle("/metrics", metrics.Handler())

	return requestIDMiddleware(loggingMiddleware(mux))
}
