package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/cancellation-rewards/api"
)

const shutdownTimeout = 30 * time.Second

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve passenger records over HTTP",
		Long: `Load the flight records, close the year, then serve the read-only
lookup API until interrupted. Active requests get 30s to finish on shutdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, _, err := a.loadYear(cmd)
			if err != nil {
				return err
			}

			handler := api.NewHandler(tr, a.logger)
			server := &http.Server{
				Addr:         a.cfg.HTTP.Addr,
				Handler:      api.NewRouter(handler, a.cfg.HTTP.AllowedOrigins),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}
			return a.runServer(cmd.Context(), server)
		},
	}

	cmd.Flags().String("http-addr", "", "listen address (default: :8080)")
	_ = a.v.BindPFlag("http.addr", cmd.Flags().Lookup("http-addr"))
	return cmd
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func (a *app) runServer(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.logger.Info("server stopped")
	return nil
}
