// Package observability provides logging, metrics, and tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RescoreRuns counts batch rescore runs by outcome (completed, skipped, interrupted).
	RescoreRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_rescore_runs_total",
		Help: "Total number of batch rescore runs by outcome",
	}, []string{"outcome"})

	// RescoredPosts counts per-post rescore results across batch runs.
	RescoredPosts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_rescored_posts_total",
		Help: "Total number of posts processed by the batch rescorer by result",
	}, []string{"result"})

	// RescoreDuration records how long a batch rescore run takes.
	RescoreDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ripple_rescore_duration_seconds",
		Help:    "Batch rescore run duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// FeedQueryDuration records feed read latency by retrieval mode.
	FeedQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ripple_feed_query_duration_seconds",
		Help:    "Feed query latency in seconds by pagination mode",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})

	// EngagementEvents counts successful engagement mutations by kind.
	EngagementEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_engagement_events_total",
		Help: "Total number of recorded engagement events by kind",
	}, []string{"kind"})

	// CacheRequests counts cache lookups by key class and hit/miss.
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_cache_requests_total",
		Help: "Total number of cache lookups by result",
	}, []string{"result"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)
