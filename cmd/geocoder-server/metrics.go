package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

// serverMetrics holds the Prometheus collectors for the geocoding service.
type serverMetrics struct {
	queriesTotal  *prometheus.CounterVec
	queryDuration prometheus.Histogram
	resultCount   prometheus.Histogram
}

// newServerMetrics creates and registers all collectors on reg.
func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	m := &serverMetrics{
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geocoder_queries_total",
				Help: "Geocoding queries by outcome (ok, empty, bad_request, rate_limited).",
			},
			[]string{"outcome"},
		),
		queryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "geocoder_query_duration_seconds",
				Help:    "Geocoding query latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
		resultCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "geocoder_results_per_query",
				Help:    "Number of results returned per geocoding query.",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
			},
		),
	}
	reg.MustRegister(m.queriesTotal, m.queryDuration, m.resultCount)
	return m
}
