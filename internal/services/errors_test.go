package services_test

import (
	"errors"
	"testing"

	"theramuse/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrValidation, "profile", "parse", "missing condition", base)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "store", "open", "", nil)
	if !errors.Is(err, services.ErrPersistence) {
		t.Fatalf("expected persistence fallback, got %v", err)
	}
}

func TestWrapMessageComposition(t *testing.T) {
	err := services.Wrap(services.ErrNotFound, "feedback", "lookup", "session missing", nil)
	want := "not found: feedback: lookup: session missing"
	if err.Error() != want {
		t.Fatalf("unexpected message %q, want %q", err.Error(), want)
	}
}
