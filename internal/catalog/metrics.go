package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FetchDuration observes browse-session catalog fetches by outcome
// (ok, error, stale).
var FetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "storefront_catalog_fetch_duration_seconds",
		Help:    "Duration of catalog fetches issued by browse sessions",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"outcome"},
)
