// Package metrics holds the Prometheus collectors exposed at GET /metrics.
//
//	toplists_http_requests_total              counter: requests by method/route/status
//	toplists_http_request_duration_seconds    histogram: latency by method/route
//	toplists_catalog_requests_total           counter: catalog lookups by type/id/result
//	toplists_static_items                     gauge: items loaded from the CSV source
//	toplists_live_items                       gauge: items in the current live snapshot
//	toplists_live_refresh_total               counter: live refresh attempts by result
//	toplists_live_refresh_duration_seconds    histogram: live refresh latency
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresh results.
const (
	RefreshSuccess = "success"
	RefreshError   = "error"
	RefreshEmpty   = "empty"
	RefreshCached  = "cached"
)

var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "toplists_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "route", "status"})

var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "toplists_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})

var CatalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "toplists_catalog_requests_total",
	Help: "Catalog lookups by type, id and result.",
}, []string{"type", "id", "result"})

var StaticItems = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "toplists_static_items",
	Help: "Number of items loaded into the static catalog.",
})

var LiveItems = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "toplists_live_items",
	Help: "Number of items in the current live catalog snapshot.",
})

var LiveRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "toplists_live_refresh_total",
	Help: "Live catalog refresh attempts by result.",
}, []string{"result"})

var LiveRefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "toplists_live_refresh_duration_seconds",
	Help:    "Time spent fetching and parsing the live source page.",
	Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 30},
})

// Handler returns the Prometheus HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency labelled with the chi route
// pattern, so ids in the path do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rw.status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
