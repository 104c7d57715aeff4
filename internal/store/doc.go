// Package store persists therapy sessions, recommendations, feedback events
// and bandit arm state in SQLite. Arm updates go through an atomic
// read-modify-write path serialized by a file lock across processes.
package store
