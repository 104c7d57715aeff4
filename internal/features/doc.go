// Package features maps patient profiles into the fixed-width numeric
// context vectors consumed by the bandit policy.
package features
