package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finstat/internal/assistant"
	"github.com/cleared-dev/finstat/internal/report"
)

func newSummarizeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <file>",
		Short: "Ask the assistant for a short written assessment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.model(cmd.Context())
			if err != nil {
				return err
			}
			sc, err := a.load(args[0])
			if err != nil {
				return err
			}
			text, err := assistant.Summarize(cmd.Context(), m, sc, a.format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.CleanMarkdown(text))
			return nil
		},
	}
}
