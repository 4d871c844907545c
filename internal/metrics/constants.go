package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Business metric names
const (
	MetricNameLogins              = "logins_total"
	MetricNameTweetsCreated       = "tweets_created_total"
	MetricNameTweetsDeleted       = "tweets_deleted_total"
	MetricNameTweetsEdited        = "tweets_edited_total"
	MetricNameTweetEditLosses     = "tweet_edit_losses_total"
	MetricNameBatchDeleteFailures = "batch_delete_failures_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Business metric help text
const (
	HelpTextLogins              = "Total number of completed logins"
	HelpTextTweetsCreated       = "Total number of tweets posted through the app"
	HelpTextTweetsDeleted       = "Total number of tweets deleted through the app"
	HelpTextTweetsEdited        = "Total number of tweets edited through the app"
	HelpTextTweetEditLosses     = "Total number of edits where the repost failed after the delete"
	HelpTextBatchDeleteFailures = "Total number of failed deletions within batch requests"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
