// Package observability exposes Prometheus metrics for provider calls, runs
// and the HTTP surface, plus the gin middleware that records them.
package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/visapack/internal/model"
)

var (
	registerOnce sync.Once

	providerCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visapack",
			Subsystem: "provider",
			Name:      "calls_total",
			Help:      "Provider attempts by outcome.",
		},
		[]string{"capability", "provider", "outcome"},
	)
	providerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "visapack",
			Subsystem: "provider",
			Name:      "call_duration_seconds",
			Help:      "Provider attempt latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"capability", "provider"},
	)
	runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visapack",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Finished pack runs by status.",
		},
		[]string{"status"},
	)
	stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "visapack",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Stage run time in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage", "status"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visapack",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "visapack",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(providerCalls, providerDuration, runs, stageDuration, httpRequests, httpDuration)
	})
}

func RecordProviderCall(call model.ProviderCall) {
	RegisterMetrics()
	providerCalls.WithLabelValues(string(call.Capability), call.Provider, string(call.Outcome)).Inc()
	providerDuration.WithLabelValues(string(call.Capability), call.Provider).Observe(call.Latency.Seconds())
}

func RecordRun(status model.PackStatus) {
	RegisterMetrics()
	runs.WithLabelValues(string(status)).Inc()
}

func RecordStage(stage model.StageName, status model.StageStatus, duration time.Duration) {
	RegisterMetrics()
	stageDuration.WithLabelValues(string(stage), string(status)).Observe(duration.Seconds())
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// ProviderRecorder feeds gateway attempts into the provider metrics.
type ProviderRecorder struct{}

// ObserveCall implements gateway.Recorder.
func (ProviderRecorder) ObserveCall(call model.ProviderCall) {
	RecordProviderCall(call)
}
