// Package recommender is the orchestration layer: it turns a patient profile
// into a persisted, bandit-ranked recommendation payload and feeds explicit
// feedback back into the per-category posteriors.
package recommender
