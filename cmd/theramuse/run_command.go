package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"theramuse/internal/api"
)

// newRunCommand implements the pipe contract used by hosting applications:
// one JSON request on stdin, one JSON response on stdout, logs on stderr.
// Failures still produce an error envelope on stdout so the caller always
// has a parseable response; the non-zero exit mirrors the envelope.
func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process one JSON request from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read request: %w", err)
			}
			if len(raw) == 0 {
				writeJSON(cmd, api.ErrorResponse{Error: "empty request payload"})
				return fmt.Errorf("empty request payload")
			}

			var req api.Request
			if err := json.Unmarshal(raw, &req); err != nil {
				writeJSON(cmd, api.ErrorResponse{Error: fmt.Sprintf("invalid JSON request: %v", err)})
				return fmt.Errorf("invalid JSON request: %w", err)
			}

			handler, err := ctx.handler()
			if err != nil {
				writeJSON(cmd, api.ErrorResponse{Error: err.Error()})
				return err
			}

			result, handleErr := handler.Handle(cmd.Context(), req)
			if writeErr := writeJSON(cmd, result); writeErr != nil {
				return fmt.Errorf("write response: %w", writeErr)
			}
			return handleErr
		},
	}
}
