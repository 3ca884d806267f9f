package testsupport

import (
	"path/filepath"
	"testing"

	"deltakey/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = base
	cfg.Paths.DatabasePath = filepath.Join(base, "deltakey.db")
	cfg.Paths.SessionDir = filepath.Join(base, "sessions")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return &cfg
}

// WithMaxAutoSteps overrides the automated identification step limit.
func WithMaxAutoSteps(n int) ConfigOption {
	return func(c *config.Config) {
		c.Key.MaxAutoSteps = n
	}
}
