// Package profile types and validates patient intake data.
//
// It is the single translation boundary between the loosely structured
// patient_info blob submitted by the web layer and the strict numeric
// context vector the bandit policy consumes.
package profile
