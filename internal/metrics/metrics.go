package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SimulationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pvplant_simulation_runs_total",
			Help: "Total plant simulations executed",
		},
		[]string{"model", "status"},
	)

	SimulationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pvplant_simulation_duration_seconds",
			Help:    "Plant simulation wall time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	PSM3CallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pvplant_psm3_api_calls_total",
			Help: "Total NREL PSM3 API calls",
		},
		[]string{"names", "status"},
	)

	PSM3Latency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pvplant_psm3_api_latency_seconds",
			Help:    "PSM3 API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"names"},
	)

	WeatherCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pvplant_weather_cache_lookups_total",
			Help: "Weather cache lookups by result",
		},
		[]string{"result"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pvplant_http_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
