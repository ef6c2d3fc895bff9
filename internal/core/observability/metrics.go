// Package observability holds the process-wide Prometheus collectors.
package observability

import (
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var parkLabel atomic.Value

func init() {
	parkLabel.Store("default")
}

func SetPark(s string) {
	if s == "" {
		s = "default"
	}
	parkLabel.Store(s)
}

func getPark() string {
	if s, ok := parkLabel.Load().(string); ok && s != "" {
		return s
	}
	return "default"
}

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status", "park"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"method", "route", "status", "park"},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build information for the binary.",
		},
		[]string{"version"},
	)

	rebuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkmap_rebuilds_total",
			Help: "Full layer rebuilds by trigger.",
		},
		[]string{"trigger", "park"},
	)

	rebuildDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parkmap_rebuild_duration_seconds",
			Help:    "Duration of a clear-and-rebuild of the live set.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 14),
		},
		[]string{"park"},
	)

	liveObjects = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "parkmap_live_objects",
			Help: "Live overlays and annotations on the map surface by kind.",
		},
		[]string{"kind", "park"},
	)

	degradedLayers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkmap_degraded_layers_total",
			Help: "Layer builds that dropped records or found no data.",
		},
		[]string{"layer", "reason"},
	)

	recordLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkmap_record_loads_total",
			Help: "Record collection lookups by outcome.",
		},
		[]string{"outcome"},
	)

	renderDispatch = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkmap_render_dispatch_total",
			Help: "Renderer and marker resolutions by kind.",
		},
		[]string{"kind"},
	)

	renderUnresolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkmap_render_unresolved_total",
			Help: "Live objects that resolved to an empty renderer.",
		},
	)

	eventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkmap_toggle_events_dropped_total",
			Help: "Toggle events dropped by sink.",
		},
		[]string{"driver", "reason"},
	)
)

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	p := getPark()
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st, p).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st, p).Observe(durationSeconds)
}

func ObserveRebuild(trigger string, durationSeconds float64) {
	p := getPark()
	rebuildsTotal.WithLabelValues(trigger, p).Inc()
	rebuildDurationSeconds.WithLabelValues(p).Observe(durationSeconds)
}

// SetLiveObjects replaces the live gauge for each kind in counts.
func SetLiveObjects(counts map[string]int) {
	p := getPark()
	for kind, n := range counts {
		liveObjects.WithLabelValues(kind, p).Set(float64(n))
	}
}

func IncDegradedLayer(layer, reason string) {
	degradedLayers.WithLabelValues(layer, reason).Inc()
}

func IncRecordLoad(found bool) {
	if found {
		recordLoads.WithLabelValues("hit").Inc()
		return
	}
	recordLoads.WithLabelValues("miss").Inc()
}

func IncRenderDispatch(kind string) {
	renderDispatch.WithLabelValues(kind).Inc()
}

func IncRenderUnresolved() {
	renderUnresolved.Inc()
}

func IncEventDropped(driver, reason string) {
	eventsDropped.WithLabelValues(driver, reason).Inc()
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
