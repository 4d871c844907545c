package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Business Metrics
var (
	Logins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLogins,
			Help: HelpTextLogins,
		},
	)

	TweetsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTweetsCreated,
			Help: HelpTextTweetsCreated,
		},
	)

	TweetsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTweetsDeleted,
			Help: HelpTextTweetsDeleted,
		},
	)

	TweetsEdited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTweetsEdited,
			Help: HelpTextTweetsEdited,
		},
	)

	TweetEditLosses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTweetEditLosses,
			Help: HelpTextTweetEditLosses,
		},
	)

	BatchDeleteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBatchDeleteFailures,
			Help: HelpTextBatchDeleteFailures,
		},
	)
)
