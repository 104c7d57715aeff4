// Package report renders recommendation exports for download by callers.
// Only JSON output is produced natively; the richer document formats need
// external tooling and are rejected with a validation error.
package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"theramuse/internal/services"
)

// Export is the downloadable artifact handed back to the caller. Content is
// base64 so the envelope stays valid JSON regardless of the payload bytes.
type Export struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
}

// Input carries the material a report is built from. All fields are the
// loose JSON shapes the caller already holds; the report does not reinterpret
// them.
type Input struct {
	PatientInfo     map[string]any
	Recommendations map[string]any
	Big5Scores      map[string]any
}

type jsonReport struct {
	GeneratedAt     string         `json:"generated_at"`
	PatientInfo     map[string]any `json:"patient_info"`
	Recommendations map[string]any `json:"recommendations"`
	Big5Scores      map[string]any `json:"big5_scores,omitempty"`
}

// Generate builds the export for the requested format. Format matching is
// case insensitive.
func Generate(format string, in Input) (*Export, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return generateJSON(in, time.Now())
	case "docx", "pdf":
		return nil, services.Wrap(services.ErrValidation, "report", "generate",
			fmt.Sprintf("format %q requires external document tooling", format), nil)
	default:
		return nil, services.Wrap(services.ErrValidation, "report", "generate",
			fmt.Sprintf("unsupported export format %q", format), nil)
	}
}

func generateJSON(in Input, now time.Time) (*Export, error) {
	doc := jsonReport{
		GeneratedAt:     now.Format(time.RFC3339),
		PatientInfo:     orEmpty(in.PatientInfo),
		Recommendations: orEmpty(in.Recommendations),
		Big5Scores:      in.Big5Scores,
	}
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "report", "generate", "encode report", err)
	}
	return &Export{
		Content:  base64.StdEncoding.EncodeToString(content),
		Filename: fmt.Sprintf("theramuse_report_%s.json", now.Format("20060102150405")),
		MimeType: "application/json",
	}, nil
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
