package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finstat/internal/assistant"
	"github.com/cleared-dev/finstat/internal/gitops"
	"github.com/cleared-dev/finstat/internal/report"
)

func newReportCommand(a *app) *cobra.Command {
	var output string
	var withSummary, commit bool

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Export the analysis as a standalone HTML page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := a.load(args[0])
			if err != nil {
				return err
			}

			summary := ""
			if withSummary {
				m, err := a.model(cmd.Context())
				if err != nil {
					return err
				}
				if summary, err = assistant.Summarize(cmd.Context(), m, sc, a.format); err != nil {
					return err
				}
			}

			if output == "" {
				base := filepath.Base(args[0])
				output = strings.TrimSuffix(base, filepath.Ext(base)) + ".html"
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating report: %w", err)
			}
			defer f.Close()

			if err := report.WriteHTML(f, sc, a.format, summary, time.Now()); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)

			if commit {
				abs, err := filepath.Abs(output)
				if err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
				hash, err := gitops.Commit(cmd.Context(), filepath.Dir(abs), "report: "+sc.FileName,
					gitops.DefaultAuthor, filepath.Base(abs))
				if err != nil {
					return fmt.Errorf("committing report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Committed %s\n", hash)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default <file>.html)")
	cmd.Flags().BoolVar(&withSummary, "summary", false, "include an AI summary")
	cmd.Flags().BoolVar(&commit, "commit", false, "commit the report to the enclosing git repository")

	return cmd
}
