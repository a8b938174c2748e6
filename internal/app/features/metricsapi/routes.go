// Package metricsapi exposes the Prometheus scrape endpoint.
package metricsapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes returns the router serving GET /metrics for the given registry.
func Routes(registry *prometheus.Registry) chi.Router {
	r := chi.NewRouter()
	r.Get("/", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP)
	return r
}
