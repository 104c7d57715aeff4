package main

import (
	"github.com/spf13/cobra"

	"theramuse/internal/api"
)

func newFeedbackCommand(ctx *commandContext) *cobra.Command {
	var sessionID string
	var patientID string
	var condition string
	var category string
	var songTitle string
	var videoID string
	var feedbackType string
	var patientInfoArg string

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Record patient feedback for a recommended song",
		RunE: func(cmd *cobra.Command, args []string) error {
			patientInfo, err := readPatientInfo(cmd, patientInfoArg)
			if err != nil {
				return err
			}

			handler, err := ctx.handler()
			if err != nil {
				return err
			}

			data := map[string]any{
				"session_id":    sessionID,
				"patient_id":    patientID,
				"condition":     condition,
				"feedback_type": feedbackType,
				"song": map[string]any{
					"title":    songTitle,
					"id":       videoID,
					"category": category,
				},
			}
			if len(patientInfo) > 0 {
				data["patient_info"] = patientInfo
			}

			result, err := handler.Handle(cmd.Context(), api.Request{
				Action: "feedback",
				Data:   data,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session-id", "", "Session identifier from a recommendation response")
	cmd.Flags().StringVar(&patientID, "patient-id", "", "Stable patient identifier")
	cmd.Flags().StringVar(&condition, "condition", "", "Therapy condition (dementia, down_syndrome, adhd)")
	cmd.Flags().StringVar(&category, "category", "", "Recommendation category key the song came from")
	cmd.Flags().StringVar(&songTitle, "song-title", "", "Title of the rated song")
	cmd.Flags().StringVar(&videoID, "video-id", "", "Video identifier of the rated song")
	cmd.Flags().StringVar(&feedbackType, "type", "", "Feedback type (like, neutral, skip, dislike, inappropriate)")
	cmd.Flags().StringVar(&patientInfoArg, "patient-info", "", "Patient profile JSON, @file, or - for stdin")
	cmd.MarkFlagRequired("session-id")
	cmd.MarkFlagRequired("patient-id")
	cmd.MarkFlagRequired("condition")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("type")
	return cmd
}
