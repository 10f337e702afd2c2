package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finstat/internal/assistant"
	"github.com/cleared-dev/finstat/internal/logger"
	"github.com/cleared-dev/finstat/internal/pipeline"
	"github.com/cleared-dev/finstat/internal/server"
	"github.com/cleared-dev/finstat/internal/transcript"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var addr string
	var origins []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload, analysis and chat API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session := pipeline.NewSession(a.registry, a.opts, a.cfg.Cache.TTL())

			var asst *assistant.Assistant
			m, err := a.model(ctx)
			switch {
			case errors.Is(err, assistant.ErrNoAPIKey):
				logger.L.Warn("assistant disabled", "reason", err)
			case err != nil:
				return err
			default:
				asst = assistant.New(m, a.format, transcript.New(a.cfg.Transcript.Path))
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(session, asst, a.format, origins).Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return listen(ctx, srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringSliceVar(&origins, "origins", nil, "allowed CORS origins")

	return cmd
}

// listen serves until ctx is cancelled, then shuts down gracefully.
func listen(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.L.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logger.L.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
