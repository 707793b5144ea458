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
//  1. defaults (New(ctx))
//  2. file (YAML) if RANQR_CONFIG is set
//  3. env (prefix RANQR_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("RANQR_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: RANQR_ADDR, RANQR_SELECTOR_WINDOW, ...
	// Keys map to the flat koanf tags on the struct; underscores stay.
	envProvider := env.Provider("RANQR_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "ranqr_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the engine cannot run with.
func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.SelectorWindow < 1:
		return fmt.Errorf("%w: selector_window must be at least 1", ErrInvalidConfig)
	case cfg.CoverageFloor < 1:
		return fmt.Errorf("%w: coverage_floor must be at least 1", ErrInvalidConfig)
	case cfg.WinPoints < 1:
		return fmt.Errorf("%w: win_points must be at least 1", ErrInvalidConfig)
	case cfg.TiePoints < 0:
		return fmt.Errorf("%w: tie_points must not be negative", ErrInvalidConfig)
	case cfg.MaxRankingLimit < 1:
		return fmt.Errorf("%w: max_ranking_limit must be at least 1", ErrInvalidConfig)
	}
	return nil
}
