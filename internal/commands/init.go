package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finstat/internal/config"
	"github.com/cleared-dev/finstat/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var force, git bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default finstat.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, force, git)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	cmd.Flags().BoolVar(&git, "git", false, "initialize a git repository and commit the project files")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force, git bool) error {
	cfg := config.Default()

	// Create directory structure.
	for _, d := range []string{dir, filepath.Join(dir, filepath.Dir(cfg.Transcript.Path))} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write finstat.yaml.
	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write .env template.
	envPath := filepath.Join(dir, ".env.example")
	env := cfg.Assistant.APIKeyEnv + "=\n"
	if err := os.WriteFile(envPath, []byte(env), 0o644); err != nil {
		return fmt.Errorf("writing .env.example: %w", err)
	}

	// Write .gitignore.
	gitignore := ".env\nlogs/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if !git {
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized finstat project at %s\n", dir)
		return nil
	}

	// Initialize git and create initial commit.
	ctx := cmd.Context()
	if err := gitops.Init(ctx, dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := gitops.Commit(ctx, dir, "init: finstat project", gitops.DefaultAuthor,
		config.FileName, ".env.example", ".gitignore")
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized finstat project at %s (%s)\n", dir, hash)
	return nil
}
