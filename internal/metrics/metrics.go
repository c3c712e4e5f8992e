// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Clone actions.
const (
	ActionClone     = "clone"
	ActionCloneEdit = "clone_edit"
	ActionAPI       = "api"
)

// Clone results.
const (
	ResultSuccess     = "success"
	ResultFailed      = "failed"
	ResultDenied      = "denied"
	ResultInvalid     = "invalid"
	ResultBadNonce    = "bad_nonce"
	ResultUnsupported = "unsupported"
	ResultNotFound    = "not_found"
)

var (
	// CloneRequests counts clone requests by action and outcome.
	CloneRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickclone_clone_total",
			Help: "Total number of clone requests by action and result",
		},
		[]string{"action", "result"},
	)

	// CloneDuration tracks how long successful and failed duplications take.
	CloneDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quickclone_clone_duration_seconds",
			Help:    "Duration of content duplication",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ClonedVariations counts product variations created by clones.
	ClonedVariations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quickclone_cloned_variations_total",
			Help: "Total number of product variations created by clones",
		},
	)
)

// ObserveClone records one finished duplication.
func ObserveClone(action, result string, started time.Time, variations int) {
	CloneRequests.WithLabelValues(action, result).Inc()
	CloneDuration.Observe(time.Since(started).Seconds())
	if variations > 0 {
		ClonedVariations.Add(float64(variations))
	}
}

// Reject records a clone request refused before duplication started.
func Reject(action, result string) {
	CloneRequests.WithLabelValues(action, result).Inc()
}
