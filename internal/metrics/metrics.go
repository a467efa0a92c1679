// Package metrics provides Prometheus metrics for the recommendation service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "game_recommendation"

// Recorder owns a private registry and every collector the service exports.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Scoring
	itemsRanked    *prometheus.CounterVec
	itemsSkipped   *prometheus.CounterVec
	rankingLatency *prometheus.HistogramVec

	// Providers
	providerCalls *prometheus.CounterVec

	// Cache
	cacheLookups *prometheus.CounterVec

	// Library sync
	syncRuns       *prometheus.CounterVec
	gamesSynced    prometheus.Counter
	lastSyncUnix   prometheus.Gauge
	trackedLibrary prometheus.Gauge
}

// New creates a Recorder with Go and process collectors registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(reg)

	return &Recorder{
		registry: reg,

		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		itemsRanked: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "items_ranked_total",
			Help:      "Items returned by the ranking flows.",
		}, []string{"flow", "mode"}),
		itemsSkipped: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "items_skipped_total",
			Help:      "Candidates dropped because they violated an invariant.",
		}, []string{"flow"}),
		rankingLatency: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "duration_seconds",
			Help:      "End-to-end latency of a ranking or discovery call.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"flow"}),

		providerCalls: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "calls_total",
			Help:      "Outbound provider calls by outcome.",
		}, []string{"provider", "outcome"}),

		cacheLookups: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Discovery cache lookups by result.",
		}, []string{"result"}),

		syncRuns: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Library sync runs by outcome.",
		}, []string{"outcome"}),
		gamesSynced: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "games_total",
			Help:      "Games written by library syncs.",
		}),
		lastSyncUnix: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful library sync.",
		}),
		trackedLibrary: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "tracked_users",
			Help:      "Users refreshed by the last scheduled run.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveHTTP records one served request.
func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveRanking records the outcome of one ranking or discovery call.
func (r *Recorder) ObserveRanking(flow, mode string, ranked, skipped int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.itemsRanked.WithLabelValues(flow, mode).Add(float64(ranked))
	r.itemsSkipped.WithLabelValues(flow).Add(float64(skipped))
	r.rankingLatency.WithLabelValues(flow).Observe(elapsed.Seconds())
}

// ProviderCall records one outbound provider call.
func (r *Recorder) ProviderCall(provider string, err error) {
	if r == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	r.providerCalls.WithLabelValues(provider, outcome).Inc()
}

// CacheLookup records a cache hit or miss.
func (r *Recorder) CacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// SyncFinished records one library sync.
func (r *Recorder) SyncFinished(games int, err error, at time.Time) {
	if r == nil {
		return
	}
	if err != nil {
		r.syncRuns.WithLabelValues("error").Inc()
		return
	}
	r.syncRuns.WithLabelValues("success").Inc()
	r.gamesSynced.Add(float64(games))
	r.lastSyncUnix.Set(float64(at.Unix()))
}

// TrackedUsers records how many libraries the last scheduled refresh covered.
func (r *Recorder) TrackedUsers(n int) {
	if r == nil {
		return
	}
	r.trackedLibrary.Set(float64(n))
}
