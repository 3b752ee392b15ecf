// Package metrics exposes the service's prometheus collectors. All
// collectors are registered on the default registry and served from
// the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AdapterFetches counts upstream adapter outcomes per API type
	AdapterFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nowplaying",
		Name:      "adapter_fetches_total",
		Help:      "Upstream metadata fetches by API type and outcome (hit, miss, error).",
	}, []string{"api_type", "outcome"})

	// AdVerdicts counts positive ad classifications per tier
	AdVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nowplaying",
		Name:      "ad_verdicts_total",
		Help:      "Positive advertisement verdicts by classifier tier.",
	}, []string{"tier"})

	// CacheLookups counts dispatcher cache hits and misses
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nowplaying",
		Name:      "cache_lookups_total",
		Help:      "Dispatcher result cache lookups by outcome (hit, miss).",
	}, []string{"outcome"})

	// PollDuration tracks end-to-end now-playing poll latency
	PollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nowplaying",
		Name:      "poll_duration_seconds",
		Help:      "End-to-end latency of a now-playing poll.",
		Buckets:   prometheus.DefBuckets,
	})

	// PersistenceFailures counts swallowed store write failures
	PersistenceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nowplaying",
		Name:      "persistence_failures_total",
		Help:      "Now-playing store writes that failed and were swallowed.",
	})
)
