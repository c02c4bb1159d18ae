package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/phrazzld/smartflash/internal/api"
	"github.com/phrazzld/smartflash/internal/api/middleware"
	"github.com/spf13/cobra"
)

func (c *cli) serveCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the deck, generation and review API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				c.config.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				c.config.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return c.withApp(ctx, true, func(app *application) error {
				router, err := app.setupRouter()
				if err != nil {
					return err
				}
				return app.startHTTPServer(ctx, router)
			})
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "address to listen on (overrides server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides server.port)")
	return cmd
}

// setupRouter creates the HTTP handler. Bearer-token auth is enabled when a
// token hash is configured.
func (app *application) setupRouter() (http.Handler, error) {
	deps := api.RouterDeps{
		Decks:      app.decks,
		Generation: app.generate,
		Sessions:   app.sessions,
		Logger:     app.logger,
	}

	if app.config.Server.APITokenHash != "" {
		auth, err := middleware.NewTokenAuth(app.config.Server.APITokenHash)
		if err != nil {
			return nil, err
		}
		deps.Auth = auth
	} else {
		app.logger.Warn("API token hash not configured, API is unauthenticated")
	}

	return api.NewRouter(deps), nil
}

// startHTTPServer runs the server until ctx is cancelled, then shuts it down
// gracefully within the configured timeout.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	addr := net.JoinHostPort(app.config.Server.Host, strconv.Itoa(app.config.Server.Port))
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("Starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("Server failed", "error", err)
			serveErr <- err
			cancelServer()
		}
	}()

	<-serverCtx.Done()
	app.logger.Info("Shutting down server...")

	timeout := time.Duration(app.config.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("Server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	default:
	}

	app.logger.Info("Server shutdown completed")
	return nil
}
