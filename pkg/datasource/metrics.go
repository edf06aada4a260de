package datasource

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datasource_requests_total",
			Help: "Data source requests by protocol and outcome",
		},
		[]string{"protocol", "outcome"},
	)

	fetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datasource_fetch_duration_seconds",
			Help:    "Duration of data source fetches",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"protocol"},
	)
)
