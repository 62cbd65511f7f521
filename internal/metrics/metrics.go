// Package metrics exposes Prometheus instrumentation for the refresh
// pipeline. All collectors are registered on the default registry and served
// by the api binary at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketmood_refreshes_total",
		Help: "Completed pipeline refreshes by outcome.",
	}, []string{"status"})

	refreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "marketmood_refresh_duration_seconds",
		Help:    "End-to-end duration of one pipeline refresh.",
		Buckets: prometheus.DefBuckets,
	})

	fetchFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketmood_fetch_fallbacks_total",
		Help: "Rich-mode fetch failures that fell back to minimal mode.",
	})

	headlinesScoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketmood_headlines_scored_total",
		Help: "Headlines classified, by sentiment label.",
	}, []string{"label"})

	headlinesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketmood_headlines_skipped_total",
		Help: "Headlines dropped from a refresh because scoring failed.",
	})
)

// RecordRefresh records one finished refresh. Status is "success" or
// "failure".
func RecordRefresh(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	refreshesTotal.WithLabelValues(status).Inc()
	refreshDuration.Observe(duration.Seconds())
}

// RecordFallback records one rich-to-minimal fetch fallback.
func RecordFallback() {
	fetchFallbacksTotal.Inc()
}

// RecordHeadlineScored records one classified headline.
func RecordHeadlineScored(label string) {
	headlinesScoredTotal.WithLabelValues(label).Inc()
}

// RecordHeadlinesSkipped records headlines lost to scoring errors.
func RecordHeadlinesSkipped(count int) {
	if count > 0 {
		headlinesSkippedTotal.Add(float64(count))
	}
}
