// Package logging constructs slog loggers for the engine.
//
// Diagnostics are written to stderr (and optionally a log file) because
// stdout carries exactly one JSON response per invocation.
package logging
