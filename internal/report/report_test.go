package report_test

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"theramuse/internal/report"
	"theramuse/internal/services"
)

func TestGenerateJSON(t *testing.T) {
	in := report.Input{
		PatientInfo: map[string]any{"name": "Mary", "age": 78},
		Recommendations: map[string]any{
			"favorite_genre": map[string]any{"count": 2},
		},
		Big5Scores: map[string]any{"extraversion": 5.5},
	}

	export, err := report.Generate("json", in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if export.MimeType != "application/json" {
		t.Fatalf("mime type = %q", export.MimeType)
	}
	if !strings.HasPrefix(export.Filename, "theramuse_report_") || !strings.HasSuffix(export.Filename, ".json") {
		t.Fatalf("filename = %q", export.Filename)
	}

	raw, err := base64.StdEncoding.DecodeString(export.Content)
	if err != nil {
		t.Fatalf("content is not base64: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("content is not JSON: %v", err)
	}
	if doc["generated_at"] == "" {
		t.Fatal("missing generated_at")
	}
	patient, ok := doc["patient_info"].(map[string]any)
	if !ok || patient["name"] != "Mary" {
		t.Fatalf("patient_info = %v", doc["patient_info"])
	}
	if _, ok := doc["recommendations"].(map[string]any); !ok {
		t.Fatalf("recommendations = %v", doc["recommendations"])
	}
}

func TestGenerateJSONDefaultsEmptySections(t *testing.T) {
	export, err := report.Generate("JSON", report.Input{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	raw, _ := base64.StdEncoding.DecodeString(export.Content)
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("content is not JSON: %v", err)
	}
	if _, ok := doc["patient_info"].(map[string]any); !ok {
		t.Fatal("patient_info should default to an empty object")
	}
	if _, present := doc["big5_scores"]; present {
		t.Fatal("empty big5_scores should be omitted")
	}
}

func TestGenerateRejectsUnsupportedFormats(t *testing.T) {
	for _, format := range []string{"docx", "pdf", "xlsx", ""} {
		_, err := report.Generate(format, report.Input{})
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("format %q: error = %v, want ErrValidation", format, err)
		}
	}
}
