package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writers: []io.Writer{&buf}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	WithComponent(logger, "recommender").Info("payload assembled", slog.Int("total_songs", 12))

	line := buf.String()
	if !strings.Contains(line, "recommender: payload assembled") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, "total_songs=12") {
		t.Fatalf("expected attr rendering, got %q", line)
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Writers: []io.Writer{&buf}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Warn("ill-conditioned posterior", slog.String("category", "seasonal"))

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if decoded["msg"] != "ill-conditioned posterior" {
		t.Fatalf("unexpected msg field: %v", decoded["msg"])
	}
	if decoded["level"] != "warn" {
		t.Fatalf("unexpected level field: %v", decoded["level"])
	}
	if _, ok := decoded["ts"]; !ok {
		t.Fatal("expected ts field")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writers: []io.Writer{&buf}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("suppressed")
	logger.Warn("kept")
	if strings.Contains(buf.String(), "suppressed") {
		t.Fatal("info record should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Fatal("warn record should pass")
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
