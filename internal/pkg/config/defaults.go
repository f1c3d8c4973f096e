package config

import "time"

// Default values for configuration.
const (
	DefaultConfigFile = "config.yml"

	// Server defaults
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxUploadSizeMB = 32

	// Cache defaults
	DefaultCacheTTL        = 60 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute

	// Analysis defaults
	DefaultUserFilterMode = "literal"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)
