package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRunCommandExport(t *testing.T) {
	env := setupCLITestEnv(t)

	request := `{"action":"export","data":{"format":"json","patient_info":{"name":"Mary"}}}`
	out, _, err := runCLI(t, []string{"run"}, env.configPath, request)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var envelope struct {
		Content  string `json:"content"`
		Filename string `json:"filename"`
		MimeType string `json:"mimeType"`
	}
	if err := json.Unmarshal([]byte(out), &envelope); err != nil {
		t.Fatalf("response is not JSON: %v\noutput: %s", err, out)
	}
	if envelope.MimeType != "application/json" || envelope.Content == "" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestRunCommandAnalyticsEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"run"}, env.configPath, `{"action":"analytics"}`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("response is not JSON: %v\noutput: %s", err, out)
	}
	if body["analytics"] == nil {
		t.Fatalf("missing analytics key: %s", out)
	}
}

func TestRunCommandErrorsStillEmitEnvelope(t *testing.T) {
	env := setupCLITestEnv(t)

	cases := []struct {
		name  string
		stdin string
	}{
		{"empty payload", ""},
		{"invalid json", "{"},
		{"unknown action", `{"action":"retrain"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := runCLI(t, []string{"run"}, env.configPath, tc.stdin)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(out, `"error"`) {
				t.Fatalf("stdout missing error envelope: %s", out)
			}
		})
	}
}
