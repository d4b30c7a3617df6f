// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Layer file and environment sources on top via Load.
// - External errors must be wrapped via this package's error helpers.
package config

// Storage backend names accepted by StorageBackend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogPath points at the YAML question catalog.
	CatalogPath string `koanf:"catalog_path"`

	// StorageBackend selects the session store: memory, sqlite or redis.
	StorageBackend string `koanf:"storage_backend"`

	// StorageDSN is the sqlite file path or redis address, depending on
	// the backend.
	StorageDSN string `koanf:"storage_dsn"`

	// AutoAdvanceDelayMS is the pause between a completed default-sized
	// normal question and the automatic advance.
	AutoAdvanceDelayMS int `koanf:"auto_advance_delay_ms"`

	// MaxSecondary caps the ranked secondary styles in a result.
	MaxSecondary int `koanf:"max_secondary"`

	// EventQueueSize bounds the analytics dispatch queue.
	EventQueueSize int `koanf:"event_queue_size"`

	// MaxTopStyles caps GET /styles/top?limit.
	MaxTopStyles int `koanf:"max_top_styles"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		CatalogPath:        "catalog.yaml",
		StorageBackend:     BackendMemory,
		StorageDSN:         "quiz.db",
		AutoAdvanceDelayMS: 40,
		MaxSecondary:       3,
		EventQueueSize:     10_000,
		MaxTopStyles:       50,
	}
}
