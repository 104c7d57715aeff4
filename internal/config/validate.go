package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration values for internal consistency.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return fmt.Errorf("paths.data_dir must not be empty")
	}
	if strings.TrimSpace(c.Search.BaseURL) == "" {
		return fmt.Errorf("search.base_url must not be empty")
	}
	if c.Search.TimeoutSeconds <= 0 {
		return fmt.Errorf("search.timeout_seconds must be positive, got %d", c.Search.TimeoutSeconds)
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive, got %d", c.Search.MaxResults)
	}
	if c.Search.MinDurationSeconds < 0 {
		return fmt.Errorf("search.min_duration_seconds must not be negative, got %d", c.Search.MinDurationSeconds)
	}
	if c.Search.MaxDurationSeconds > 0 && c.Search.MaxDurationSeconds < c.Search.MinDurationSeconds {
		return fmt.Errorf("search.max_duration_seconds %d is below min_duration_seconds %d",
			c.Search.MaxDurationSeconds, c.Search.MinDurationSeconds)
	}
	if c.Bandit.Lambda <= 0 {
		return fmt.Errorf("bandit.lambda must be positive, got %g", c.Bandit.Lambda)
	}
	if c.Bandit.Sigma2 <= 0 {
		return fmt.Errorf("bandit.sigma2 must be positive, got %g", c.Bandit.Sigma2)
	}
	if c.Bandit.Decay <= 0 || c.Bandit.Decay > 1 {
		return fmt.Errorf("bandit.decay must be in (0, 1], got %g", c.Bandit.Decay)
	}
	if c.Bandit.TopN <= 0 {
		return fmt.Errorf("bandit.top_n must be positive, got %d", c.Bandit.TopN)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
