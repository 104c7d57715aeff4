// Package musicsearch provides the candidate source adapter: an HTTP client
// for the TheraMuse music search service plus the content filters and
// per-request dedup applied to its results.
package musicsearch
