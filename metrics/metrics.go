// Package metrics holds the Prometheus instruments for the route engine.
// Everything is registered once at init and scraped from the ops listener.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RouteRequests counts computed routes by transport mode and outcome
	// (ok, invalid_endpoint, unreachable, integrity, bad_request, error).
	RouteRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orbis",
		Subsystem: "routing",
		Name:      "requests_total",
		Help:      "Route computations by transport mode and outcome.",
	}, []string{"mode", "status"})

	// RouteDuration observes wall-clock time of whole route computations.
	RouteDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "orbis",
		Subsystem: "routing",
		Name:      "request_duration_seconds",
		Help:      "Route computation latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"mode"})

	// SearchExpansions observes how many cells each computation expanded,
	// summed over legs. A jump here usually means world data lost roads.
	SearchExpansions = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "orbis",
		Subsystem: "routing",
		Name:      "search_expansions",
		Help:      "Frontier expansions per route computation.",
		Buckets:   prometheus.ExponentialBuckets(4, 4, 8),
	})

	// CacheEvents counts route cache hits and misses.
	CacheEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orbis",
		Subsystem: "routing",
		Name:      "cache_events_total",
		Help:      "Route result cache hits and misses.",
	}, []string{"event"})

	// SnapshotNodes and SnapshotEdges track the size of the active world
	// snapshot.
	SnapshotNodes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "orbis",
		Subsystem: "world",
		Name:      "snapshot_locations",
		Help:      "Locations in the active snapshot.",
	})
	SnapshotEdges = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "orbis",
		Subsystem: "world",
		Name:      "snapshot_roads",
		Help:      "Roads in the active snapshot.",
	})

	// SnapshotRebuilds counts snapshot swaps since the process started.
	SnapshotRebuilds = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "orbis",
		Subsystem: "world",
		Name:      "snapshot_rebuilds_total",
		Help:      "Snapshot rebuild-and-swap operations.",
	})

	// SnapshotAnomalies counts roads dropped during snapshot builds.
	SnapshotAnomalies = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "orbis",
		Subsystem: "world",
		Name:      "snapshot_anomalies_total",
		Help:      "Roads rejected by snapshot validation.",
	})
)

func init() {
	prometheus.MustRegister(
		RouteRequests,
		RouteDuration,
		SearchExpansions,
		CacheEvents,
		SnapshotNodes,
		SnapshotEdges,
		SnapshotRebuilds,
		SnapshotAnomalies,
	)
}

// Handler exposes the registry for the ops listener.
func Handler() http.Handler {
	return promhttp.Handler()
}
