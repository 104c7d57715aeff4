// Package config loads, defaults, and validates engine configuration from
// TOML files.
package config
