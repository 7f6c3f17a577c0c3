package config

import "time"

// TimeoutConfig holds timeout settings for the HTTP API.
// These can be configured via CLI flags or the environment.
type TimeoutConfig struct {
	// Read is the maximum duration for reading an entire request. Default: 15s
	Read time.Duration

	// Write is the maximum duration before timing out writes of the response.
	// Default: 30s
	Write time.Duration

	// Idle is how long keep-alive connections stay open between requests.
	// Default: 60s
	Idle time.Duration

	// Shutdown bounds graceful shutdown of the server. Default: 10s
	Shutdown time.Duration
}

// DefaultTimeoutConfig returns the default timeout configuration
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Read:     15 * time.Second,
		Write:    30 * time.Second,
		Idle:     60 * time.Second,
		Shutdown: 10 * time.Second,
	}
}
