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

func newExportCommand(ctx *commandContext) *cobra.Command {
	var format string
	var dataArg string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a downloadable report from recommendation data",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readExportData(cmd, dataArg)
			if err != nil {
				return err
			}
			data["format"] = format

			handler, err := ctx.handler()
			if err != nil {
				return err
			}

			result, err := handler.Handle(cmd.Context(), api.Request{
				Action: "export",
				Data:   data,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Report format")
	cmd.Flags().StringVar(&dataArg, "data", "-", "Report data JSON, @file, or - for stdin")
	return cmd
}

func readExportData(cmd *cobra.Command, arg string) (map[string]any, error) {
	arg = strings.TrimSpace(arg)

	var raw []byte
	var err error
	switch {
	case arg == "" || arg == "-":
		raw, err = io.ReadAll(cmd.InOrStdin())
	case strings.HasPrefix(arg, "@"):
		raw, err = os.ReadFile(strings.TrimPrefix(arg, "@"))
	default:
		raw = []byte(arg)
	}
	if err != nil {
		return nil, fmt.Errorf("read export data: %w", err)
	}
	if len(raw) == 0 {
		return map[string]any{}, nil
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse export data: %w", err)
	}
	return data, nil
}
