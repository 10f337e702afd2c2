package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/finstat/internal/assistant"
	"github.com/cleared-dev/finstat/internal/buildinfo"
	"github.com/cleared-dev/finstat/internal/config"
	"github.com/cleared-dev/finstat/internal/format"
	"github.com/cleared-dev/finstat/internal/importer"
	"github.com/cleared-dev/finstat/internal/logger"
	"github.com/cleared-dev/finstat/internal/pipeline"
	"github.com/cleared-dev/finstat/internal/statement"
)

// app is the state shared by subcommands once flags and config are resolved.
type app struct {
	configPath string
	periods    int
	locale     string
	logLevel   string

	cfg      *config.Config
	format   format.Formatter
	opts     pipeline.Options
	registry *importer.Registry
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "finstat",
		Short:   "Vietnamese financial statement analysis",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.FileName, "config file")
	flags.IntVar(&a.periods, "periods", 0, "number of periods to compare (2-4)")
	flags.StringVar(&a.locale, "locale", "", "number locale (vi or en)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAnalyzeCommand(a))
	rootCmd.AddCommand(newSummarizeCommand(a))
	rootCmd.AddCommand(newChatCommand(a))
	rootCmd.AddCommand(newReportCommand(a))
	rootCmd.AddCommand(newServeCommand(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("periods") {
		cfg.Periods = a.periods
	}
	if flags.Changed("locale") {
		cfg.Locale = a.locale
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Init(cfg.Log.Level)

	locale, err := format.ParseLocale(cfg.Locale)
	if err != nil {
		return err
	}
	catalogue, err := cfg.Catalogue()
	if err != nil {
		return fmt.Errorf("building keyword catalogue: %w", err)
	}

	a.cfg = cfg
	a.format = format.New(locale)
	a.registry = importer.DefaultRegistry()
	a.opts = pipeline.Options{
		Periods: cfg.Periods,
		Split: statement.SplitOptions{
			IncomeStatementKeyword: cfg.Split.IncomeStatementKeyword,
			HeaderKeyword:          cfg.Split.HeaderKeyword,
		},
		Catalogue: catalogue,
	}
	return nil
}

// load runs one file through a fresh session.
func (a *app) load(path string) (pipeline.SessionContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.SessionContext{}, fmt.Errorf("reading %s: %w", path, err)
	}
	session := pipeline.NewSession(a.registry, a.opts, a.cfg.Cache.TTL())
	return session.Upload(filepath.Base(path), data)
}

// model builds the Gemini client from config and the environment.
func (a *app) model(ctx context.Context) (*assistant.Gemini, error) {
	m, err := assistant.NewGemini(ctx, assistant.GeminiConfig{
		APIKey:      a.cfg.Assistant.APIKey(),
		Model:       a.cfg.Assistant.Model,
		Temperature: a.cfg.Assistant.Temperature,
		Timeout:     a.cfg.Assistant.Timeout(),
	})
	if errors.Is(err, assistant.ErrNoAPIKey) {
		return nil, fmt.Errorf("%w: set %s or add it to .env", err, a.cfg.Assistant.APIKeyEnv)
	}
	return m, err
}
