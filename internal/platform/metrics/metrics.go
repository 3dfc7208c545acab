package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parklocator_upstream_requests_total",
		Help: "Upstream tracking API requests by endpoint and status code (0 for transport errors)",
	}, []string{"endpoint", "status"})
	UpstreamDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parklocator_upstream_duration_ms",
		Help:    "Upstream request duration in milliseconds",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 5000, 20000},
	}, []string{"endpoint"})
	ReLoginTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parklocator_relogin_total",
		Help: "Forced re-authentications after HTTP 401 by outcome",
	}, []string{"outcome"})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parklocator_cache_lookups_total",
		Help: "Position cache lookups by backend and result (hit, miss, expired, corrupt)",
	}, []string{"backend", "result"})
	ResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parklocator_resolutions_total",
		Help: "Vehicle resolutions by outcome (live, cache, error kind)",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamDurationMs)
	prometheus.MustRegister(ReLoginTotal)
	prometheus.MustRegister(CacheLookupsTotal)
	prometheus.MustRegister(ResolutionsTotal)
}

// Handler exposes the registered metrics for scraping.
func Handler() http.Handler { return promhttp.Handler() }
