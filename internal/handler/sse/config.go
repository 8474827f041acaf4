package sse

import "time"

// Config holds event-stream connection settings
type Config struct {
	// KeepAliveInterval is how often an idle stream gets a comment line so
	// proxies do not time it out
	KeepAliveInterval time.Duration

	// RetryMillis is sent once as the client reconnect hint
	RetryMillis int
}

// DefaultConfig suits most reverse proxies
func DefaultConfig() *Config {
	return &Config{
		KeepAliveInterval: 15 * time.Second,
		RetryMillis:       3000,
	}
}
