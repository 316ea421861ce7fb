// Package metrics exposes the bridge's Prometheus collectors.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ChatRequests   *prometheus.CounterVec
	BackendErrors  prometheus.Counter
	FilesStored    prometheus.Counter
	BackendLatency prometheus.Histogram
}

var (
	once   sync.Once
	global *Metrics
)

// Global returns the process-wide metrics, registering them on first use.
func Global() *Metrics {
	once.Do(func() {
		global = &Metrics{
			ChatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "aibridge",
				Name:      "chat_requests_total",
				Help:      "Total chat completion requests by model",
			}, []string{"model"}),
			BackendErrors: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "aibridge",
				Name:      "backend_errors_total",
				Help:      "Total failed backend calls",
			}),
			FilesStored: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "aibridge",
				Name:      "files_stored_total",
				Help:      "Total files written to the registry",
			}),
			BackendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: "aibridge",
				Name:      "backend_latency_seconds",
				Help:      "Latency of buffered backend calls",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 11),
			}),
		}
		prometheus.MustRegister(global.ChatRequests, global.BackendErrors, global.FilesStored, global.BackendLatency)
	})
	return global
}
