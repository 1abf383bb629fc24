package models

import "time"

// LogRecord is a single timestamped log line plus any structured fields
// extracted from it. Timestamps are epoch milliseconds everywhere inside the
// server; they are rendered as RFC 3339 only at the tool boundary.
type LogRecord struct {
	LogGroup  string            `json:"logGroup"`
	LogStream string            `json:"logStream,omitempty"`
	Timestamp int64             `json:"timestamp"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	// Order is the record's position within its source fetch, used as the
	// final tie-break when merging records across groups.
	Order int `json:"-"`
}

// Time converts the record timestamp to a time.Time in UTC.
func (r LogRecord) Time() time.Time {
	return time.UnixMilli(r.Timestamp).UTC()
}

// FormatTimestamp renders an epoch-millisecond timestamp as RFC 3339 UTC.
func FormatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
