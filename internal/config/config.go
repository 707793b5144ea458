// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "context"

// Default configuration values.
const (
	defaultAddr            = ":9080"
	defaultSelectorWindow  = 3
	defaultCoverageFloor   = 1
	defaultWinPoints       = 1
	defaultTiePoints       = 0
	defaultMaxRankingLimit = 1000
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// SelectorWindow is the neighborhood window size k for matchup
	// candidate generation.
	SelectorWindow int `koanf:"selector_window"`

	// CoverageFloor is the comparison count below which an item is
	// prioritized for selection.
	CoverageFloor int `koanf:"coverage_floor"`

	// WinPoints is the score transferred from loser to winner.
	WinPoints int `koanf:"win_points"`

	// TiePoints is the score awarded to both sides of a tie (0 keeps
	// ties score-neutral).
	TiePoints int `koanf:"tie_points"`

	// MaxRankingLimit caps GET ranking responses.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// RandomSeed seeds matchup tie-breaking. 0 seeds from the clock.
	RandomSeed int64 `koanf:"random_seed"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            defaultAddr,
		SelectorWindow:  defaultSelectorWindow,
		CoverageFloor:   defaultCoverageFloor,
		WinPoints:       defaultWinPoints,
		TiePoints:       defaultTiePoints,
		MaxRankingLimit: defaultMaxRankingLimit,
		RandomSeed:      0,
	}
}
