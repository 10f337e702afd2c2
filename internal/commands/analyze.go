package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/finstat/internal/format"
	"github.com/cleared-dev/finstat/internal/logger"
	"github.com/cleared-dev/finstat/internal/model"
	"github.com/cleared-dev/finstat/internal/pipeline"
)

// maxParallel bounds concurrent pipeline runs in a batch.
const maxParallel = 4

type analyzeResult struct {
	path     string
	analysis *model.Analysis
	err      error
}

func newAnalyzeCommand(a *app) *cobra.Command {
	var dir string
	var markdown bool

	cmd := &cobra.Command{
		Use:   "analyze [file...]",
		Short: "Print statements, cost structure and ratios for spreadsheets",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if dir != "" {
				files, err := a.registry.Scan(dir)
				if err != nil {
					return err
				}
				for _, f := range files {
					paths = append(paths, f.Path)
				}
			}
			if len(paths) == 0 {
				return errors.New("no input files (pass files or --dir)")
			}
			return runAnalyze(cmd.OutOrStdout(), a, paths, markdown)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "analyze every spreadsheet in a directory")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print markdown tables")

	return cmd
}

func runAnalyze(w io.Writer, a *app, paths []string, markdown bool) error {
	results := make([]analyzeResult, len(paths))

	var g errgroup.Group
	g.SetLimit(maxParallel)
	for i, path := range paths {
		g.Go(func() error {
			start := time.Now()
			res := analyzeResult{path: path}
			t, err := a.registry.LoadFile(path)
			if err == nil {
				res.analysis, err = pipeline.Run(t, a.opts)
			}
			res.err = err
			results[i] = res
			logger.L.Debug("analyzed file", "file", path, "duration", time.Since(start), "error", err)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if res.err != nil {
			failed++
			fmt.Fprintf(w, "== %s ==\nerror: %v\n", filepath.Base(res.path), res.err)
			continue
		}
		if err := printAnalysis(w, filepath.Base(res.path), res.analysis, a.format, markdown); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

func printAnalysis(w io.Writer, name string, an *model.Analysis, f format.Formatter, markdown bool) error {
	labels := an.PeriodLabels()
	fmt.Fprintf(w, "== %s ==\nPeriods: %s\n", name, strings.Join(labels, ", "))

	for _, t := range an.Tables() {
		fmt.Fprintln(w)
		var err error
		if markdown {
			err = format.WriteMarkdown(w, t, f, labels)
		} else {
			err = format.WriteTable(w, t, f, labels)
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", t.Title, err)
		}
	}

	if len(an.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, warn := range an.Warnings {
			fmt.Fprintf(w, "warning: %s\n", warn)
		}
	}
	return nil
}
