package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Fetch metrics
var (
	// FetchRequestsTotal counts Fetch calls by outcome: success, failure or cached.
	FetchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_requests_total",
			Help: "Total number of page fetches by outcome.",
		},
		[]string{"status"},
	)

	// FetchAttemptsTotal counts HTTP attempts, retries included.
	FetchAttemptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fetch_attempts_total",
			Help: "Total number of HTTP attempts including retries.",
		},
	)

	// FetchInFlight is the number of fetches currently holding a permit.
	FetchInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fetch_in_flight",
			Help: "Number of fetches currently holding a concurrency permit.",
		},
	)
)

// Crawl metrics
var (
	LinksSavedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawl_links_saved_total",
			Help: "Total number of redirect links appended to season files.",
		},
	)

	SeasonsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_seasons_processed_total",
			Help: "Total number of seasons processed by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		FetchRequestsTotal,
		FetchAttemptsTotal,
		FetchInFlight,
		LinksSavedTotal,
		SeasonsProcessedTotal,
	)
}
