package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed or incomplete patient input. The request
	// aborts and no state is mutated.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks feedback that references an unknown session or arm.
	ErrNotFound = errors.New("not found")
	// ErrCandidateSource marks external search failures. Components degrade to
	// an empty candidate list instead of propagating this to the caller.
	ErrCandidateSource = errors.New("candidate source error")
	// ErrPersistence marks an unavailable or failing state store. Fatal for
	// the current request; updates are atomic so no partial write survives.
	ErrPersistence = errors.New("persistence error")
	// ErrConfiguration marks invalid engine configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrPersistence
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
