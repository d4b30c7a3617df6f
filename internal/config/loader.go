package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if QUIZ_CONFIG is set
//  3. env (prefix QUIZ_)
func Load(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("QUIZ_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: QUIZ_ADDR, QUIZ_CATALOG_PATH, ...
	// Map env keys like QUIZ_AUTO_ADVANCE_DELAY_MS -> auto_advance_delay_ms.
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("QUIZ_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "quiz_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch cfg.StorageBackend {
	case BackendMemory, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("%w: unknown storage_backend %q", ErrInvalidConfig, cfg.StorageBackend)
	}
	if cfg.AutoAdvanceDelayMS < 0 {
		return fmt.Errorf("%w: auto_advance_delay_ms must not be negative", ErrInvalidConfig)
	}
	if cfg.MaxSecondary < 0 {
		return fmt.Errorf("%w: max_secondary must not be negative", ErrInvalidConfig)
	}
	if cfg.EventQueueSize <= 0 {
		return fmt.Errorf("%w: event_queue_size must be positive", ErrInvalidConfig)
	}
	return nil
}
