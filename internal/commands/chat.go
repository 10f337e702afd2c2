package commands

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finstat/internal/assistant"
	"github.com/cleared-dev/finstat/internal/logger"
	"github.com/cleared-dev/finstat/internal/transcript"
)

func newChatCommand(a *app) *cobra.Command {
	var noTranscript, history bool

	cmd := &cobra.Command{
		Use:   "chat <file>",
		Short: "Chat with the assistant about a spreadsheet",
		Long: "Chat with the assistant about a spreadsheet. Type /exit or send EOF to quit.\n" +
			"With --history, print the recorded transcript instead (only turns about <file> when given).",
		Args: func(cmd *cobra.Command, args []string) error {
			if history {
				return cobra.MaximumNArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if history {
				file := ""
				if len(args) > 0 {
					file = filepath.Base(args[0])
				}
				return printHistory(cmd.OutOrStdout(), a.cfg.Transcript.Path, file)
			}

			m, err := a.model(cmd.Context())
			if err != nil {
				return err
			}
			sc, err := a.load(args[0])
			if err != nil {
				return err
			}

			var rec assistant.Recorder
			if !noTranscript {
				log := transcript.New(a.cfg.Transcript.Path)
				logger.L.Info("recording transcript", "path", log.Path())
				rec = log
			}
			c, err := assistant.NewChat(m, sc, a.format, rec)
			if err != nil {
				return err
			}
			return runChat(cmd, c)
		},
	}

	cmd.Flags().BoolVar(&noTranscript, "no-transcript", false, "do not record the conversation")
	cmd.Flags().BoolVar(&history, "history", false, "print the recorded transcript and exit")

	return cmd
}

func runChat(cmd *cobra.Command, c *assistant.Chat) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, assistant.Greeting)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		}

		reply, err := c.Send(cmd.Context(), line)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, reply)
	}
}

// printHistory writes the transcript at path, keeping only turns about file when set.
func printHistory(w io.Writer, path, file string) error {
	entries, err := transcript.Read(path)
	if err != nil {
		return err
	}
	shown := 0
	for _, e := range entries {
		if file != "" && e.File != file {
			continue
		}
		fmt.Fprintf(w, "[%s] %s (%s): %s\n", e.Timestamp.Format("02/01/2006 15:04"), e.Role, e.File, e.Content)
		shown++
	}
	if shown == 0 {
		fmt.Fprintf(w, "No transcript entries in %s\n", path)
	}
	return nil
}
