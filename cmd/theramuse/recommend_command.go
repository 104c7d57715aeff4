package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"theramuse/internal/api"
)

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var condition string
	var patientID string
	var patientInfoArg string

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Generate a recommendation session for a patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			patientInfo, err := readPatientInfo(cmd, patientInfoArg)
			if err != nil {
				return err
			}

			handler, err := ctx.handler()
			if err != nil {
				return err
			}

			result, err := handler.Handle(cmd.Context(), api.Request{
				Action: "recommend",
				Data: map[string]any{
					"condition":    condition,
					"patient_id":   patientID,
					"patient_info": patientInfo,
				},
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&condition, "condition", "", "Therapy condition (dementia, down_syndrome, adhd)")
	cmd.Flags().StringVar(&patientID, "patient-id", "", "Stable patient identifier")
	cmd.Flags().StringVar(&patientInfoArg, "patient-info", "", "Patient profile JSON, @file, or - for stdin")
	cmd.MarkFlagRequired("condition")
	return cmd
}

// readPatientInfo accepts inline JSON, @path indirection, or - for stdin.
func readPatientInfo(cmd *cobra.Command, arg string) (map[string]any, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return map[string]any{}, nil
	}

	var raw []byte
	var err error
	switch {
	case arg == "-":
		raw, err = io.ReadAll(cmd.InOrStdin())
	case strings.HasPrefix(arg, "@"):
		raw, err = os.ReadFile(strings.TrimPrefix(arg, "@"))
	default:
		raw = []byte(arg)
	}
	if err != nil {
		return nil, fmt.Errorf("read patient info: %w", err)
	}

	var info map[string]any
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("parse patient info: %w", err)
	}
	return info, nil
}
