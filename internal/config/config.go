// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Layered loading (file, env) lives in Load.
// - External errors must be wrapped via this package's sentinel kinds.
package config

import "runtime"

// Store backend identifiers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory measurement event queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the event idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the in-memory store.
	ShardCount int `koanf:"shard_count"`

	// StoreBackend selects the measurement store: "memory" or "sqlite".
	StoreBackend string `koanf:"store_backend"`

	// StorePath is the SQLite database path when StoreBackend is "sqlite".
	StorePath string `koanf:"store_path"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":9080",
		QueueSize:    100_000,
		WorkerCount:  runtime.NumCPU() * 4,
		DedupeSize:   500_000,
		ShardCount:   8,
		StoreBackend: StoreMemory,
		StorePath:    "stature.db",
	}
}
