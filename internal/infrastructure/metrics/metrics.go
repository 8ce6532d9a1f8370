package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SyncOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reposync_outcomes_total",
			Help: "Total number of synchronization outcomes by status",
		},
		[]string{"provider", "status"},
	)

	DiscoveryFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reposync_discovery_failed_total",
			Help: "Total number of failed repository discoveries",
		},
		[]string{"provider"},
	)

	RepositoriesDiscovered = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reposync_repositories",
			Help: "Number of repositories selected for synchronization in the last run",
		},
		[]string{"provider"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reposync_run_duration_seconds",
			Help:    "Synchronization run duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200, 3600},
		},
	)

	LastRunEnd = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reposync_last_run_end_timestamp",
			Help: "Unix timestamp of when the last synchronization run ended",
		},
	)
)

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
