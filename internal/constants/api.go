package constants

import "time"

// Query execution defaults
const (
	// DefaultPollInterval is the base interval between Insights query polls.
	// Each tick is jittered by +/-20% so concurrent jobs don't poll in lockstep.
	DefaultPollInterval = 1 * time.Second

	// DefaultMaxWait bounds how long a single Insights query may run before
	// the executor gives up and reports a timeout.
	DefaultMaxWait = 30 * time.Second

	// MaxTransientRetries bounds backoff retries of throttled/unavailable
	// backend calls before the error is surfaced.
	MaxTransientRetries = 4

	// DefaultQueryLimit is the result row limit passed to StartQuery.
	DefaultQueryLimit = 100
)

// Fan-out and rate limiting defaults
const (
	DefaultMaxConcurrency = 4
	DefaultRateLimit      = 5.0 // requests per second across all remote calls
	DefaultRateBurst      = 10
)

// Fetch and analysis defaults
const (
	DefaultEventLimit    = 100 // FilterLogEvents / GetLogEvents page cap
	DefaultGroupLimit    = 50  // DescribeLogGroups page size
	DefaultStreamLimit   = 20  // DescribeLogStreams page size
	DefaultSampleSize    = 50  // records sampled for structure analysis
	DefaultSampleEvents  = 10  // records returned by the log sample tool
	DefaultMaxPatterns   = 20  // error templates reported
	DefaultLookbackHours = 24
	MetricPeriodSeconds  = 3600 // 1h buckets for log volume metrics
)

// HTTP server defaults
const (
	DefaultHost = "localhost"
	DefaultPort = "8080"
)

// ServerName identifies this MCP server to clients.
const ServerName = "cloudwatch-mcp"
