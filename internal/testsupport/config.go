package testsupport

import (
	"path/filepath"
	"testing"

	"theramuse/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSearchBaseURL points the search client at a test server.
func WithSearchBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Search.BaseURL = url
		cfg.Search.BackupURLs = nil
	}
}

// WithTopN overrides the per-category selection size.
func WithTopN(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Bandit.TopN = n
	}
}
