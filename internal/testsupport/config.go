package testsupport

import (
	"path/filepath"
	"testing"

	"lacquer/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithThresholds overrides the resolver confidence bands on the test config.
func WithThresholds(match, suggest float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Resolver.MatchThreshold = match
		cfg.Resolver.SuggestThreshold = suggest
	}
}

// WithAPIToken sets the daemon bearer token on the test config.
func WithAPIToken(token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.APIToken = token
	}
}
