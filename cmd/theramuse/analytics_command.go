package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"theramuse/internal/api"
	"theramuse/internal/store"
)

func newAnalyticsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show stored session and feedback aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := ctx.handler()
			if err != nil {
				return err
			}

			result, err := handler.Handle(cmd.Context(), api.Request{Action: "analytics"})
			if err != nil {
				return err
			}

			if jsonOutput || !isTerminal(cmd.OutOrStdout()) {
				return writeJSON(cmd, result)
			}

			body, _ := result.(map[string]any)
			analytics, _ := body["analytics"].(*store.Analytics)
			if analytics == nil {
				return writeJSON(cmd, result)
			}
			printAnalytics(cmd.OutOrStdout(), analytics)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit analytics as JSON")
	return cmd
}

func printAnalytics(out io.Writer, analytics *store.Analytics) {
	fmt.Fprintln(out, renderTable(
		[]string{"Metric", "Value"},
		[][]string{
			{"Sessions", strconv.FormatInt(analytics.TotalSessions, 10)},
			{"Feedback events", strconv.FormatInt(analytics.TotalFeedback, 10)},
			{"Patients", strconv.FormatInt(analytics.TotalPatients, 10)},
		},
		[]columnAlignment{alignLeft, alignRight},
	))

	if len(analytics.RewardsByCondition) == 0 {
		fmt.Fprintln(out, "No feedback recorded yet")
		return
	}

	rows := make([][]string, 0, len(analytics.RewardsByCondition))
	for _, reward := range analytics.RewardsByCondition {
		rows = append(rows, []string{
			reward.Condition,
			strconv.FormatFloat(reward.AvgReward, 'f', 3, 64),
			strconv.FormatInt(reward.Count, 10),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Condition", "Avg Reward", "Events"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
