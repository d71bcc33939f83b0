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

// Load builds a Config by layering defaults, an optional file, and env.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ROMP_CONFIG is set
//  3. env (prefix ROMP_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ROMP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ROMP_ADDR, ROMP_POLL_INTERVAL_MS, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("ROMP_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "romp_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.PollIntervalMS <= 0:
		return fmt.Errorf("%w: poll_interval_ms must be positive", ErrInvalidConfig)
	case c.ChallengeTimeoutS <= 0:
		return fmt.Errorf("%w: challenge_timeout_s must be positive", ErrInvalidConfig)
	case c.HistoryLimit <= 0:
		return fmt.Errorf("%w: history_limit must be positive", ErrInvalidConfig)
	}
	switch c.Difficulty {
	case "easy", "medium", "hard":
	default:
		return fmt.Errorf("%w: difficulty must be easy, medium or hard", ErrInvalidConfig)
	}
	return nil
}
