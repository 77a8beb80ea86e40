package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/whisper/internal/logger"
	"github.com/example/whisper/internal/version"
	"github.com/example/whisper/internal/wire"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.ListenAddr = addr
			}
			if err := cfg.ValidateForServe(); err != nil {
				return err
			}

			srv := &http.Server{
				Addr:         cfg.ListenAddr,
				Handler:      wire.Router(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}
			defer func() {
				if err := wire.Shutdown(); err != nil {
					logger.Warn().Err(err).Msg("failed to close database")
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				logger.Info().
					Str("addr", cfg.ListenAddr).
					Str("env", cfg.Env).
					Str("version", version.String()).
					Msg("server listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err, ok := <-errCh:
				if ok {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case sig := <-quit:
				logger.Info().Str("signal", sig.String()).Msg("shutting down server")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}

			logger.Info().Msg("server exited")
			return nil
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides listen_addr)")

	return cmd
}
