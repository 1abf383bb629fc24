package models

import "time"

// Config holds the server configuration parameters
type Config struct {
	// AWS connection settings
	Region  string // default region; empty falls back to SDK resolution
	Profile string // default shared config profile; empty uses the credential chain

	// Rate limiting configuration
	RequestRateLimit float64 // Maximum requests per second
	RequestRateBurst int     // Maximum burst capacity for requests

	// Query orchestration settings
	MaxConcurrency int           // simultaneous in-flight queries per aggregate call
	PollInterval   time.Duration // base Insights poll interval
	MaxWait        time.Duration // per-query completion deadline

	// HTTP transport settings (stdio is used when HTTPMode is false)
	HTTPMode bool
	Host     string
	Port     string
}
