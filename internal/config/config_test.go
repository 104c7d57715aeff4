package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"theramuse/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Bandit.TopN != 5 {
		t.Fatalf("expected default top_n 5, got %d", cfg.Bandit.TopN)
	}
	if cfg.Bandit.Sigma2 != 1.0 {
		t.Fatalf("expected default sigma2 1.0, got %g", cfg.Bandit.Sigma2)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[bandit]
lambda = 2.5
top_n = 3

[search]
base_url = "https://example.test/search/"
timeout_seconds = 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Bandit.Lambda != 2.5 || cfg.Bandit.TopN != 3 {
		t.Fatalf("bandit overrides not applied: %+v", cfg.Bandit)
	}
	if cfg.Search.BaseURL != "https://example.test/search" {
		t.Fatalf("expected normalized base url, got %q", cfg.Search.BaseURL)
	}
	if cfg.Bandit.Decay != 0.98 {
		t.Fatalf("expected default decay to survive partial override, got %g", cfg.Bandit.Decay)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero timeout", func(c *config.Config) { c.Search.TimeoutSeconds = 0 }},
		{"negative lambda", func(c *config.Config) { c.Bandit.Lambda = -1 }},
		{"zero sigma2", func(c *config.Config) { c.Bandit.Sigma2 = 0 }},
		{"decay above one", func(c *config.Config) { c.Bandit.Decay = 1.5 }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"duration bounds inverted", func(c *config.Config) {
			c.Search.MinDurationSeconds = 300
			c.Search.MaxDurationSeconds = 100
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[bandit]") {
		t.Fatal("sample config missing [bandit] section")
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}
