package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Sweep metrics
	SweepRuns          prometheus.Counter
	SweepDuration      prometheus.Histogram
	PostsProcessed     prometheus.Counter
	NotificationsSent  *prometheus.CounterVec
	PairErrors         prometheus.Counter
	AlertErrors        prometheus.Counter
	ClassifierRequests *prometheus.CounterVec

	// Reddit client metrics
	RedditRequests  *prometheus.CounterVec
	RedditCacheHits *prometheus.CounterVec
	RateLimitDenied *prometheus.CounterVec
}

// New creates and registers all application metrics on the given registerer.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SweepRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_runs_total",
			Help:      "Total number of alert sweep invocations",
		}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Time spent running a full alert sweep",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		PostsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_posts_processed_total",
			Help:      "Total number of new posts classified and persisted by sweeps",
		}),
		NotificationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Total number of notifications dispatched, by channel",
		}, []string{"channel"}),
		PairErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_pair_errors_total",
			Help:      "Total number of keyword/subreddit pair evaluations that failed",
		}),
		AlertErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_alert_errors_total",
			Help:      "Total number of alert evaluations that failed",
		}),
		ClassifierRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_requests_total",
			Help:      "Total number of classification calls, by outcome",
		}, []string{"outcome"}),
		RedditRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reddit_requests_total",
			Help:      "Total number of Reddit API fetches, by operation",
		}, []string{"operation"}),
		RedditCacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reddit_cache_hits_total",
			Help:      "Total number of Reddit listing cache hits, by operation",
		}, []string{"operation"}),
		RateLimitDenied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reddit_rate_limit_denied_total",
			Help:      "Total number of Reddit calls rejected by the outbound rate limiter",
		}, []string{"operation"}),
	}
}

// NewDefault registers on the default prometheus registry.
func NewDefault(namespace string) *Metrics {
	return New(namespace, prometheus.DefaultRegisterer)
}
