package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/hpgraph/internal/cli"
	httpAdapter "github.com/aretw0/hpgraph/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts hpgraph as a JSON API over HTTP: validate and resolve documents, browse
the recipe catalog and recorded manifests. Prometheus metrics are served on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := prometheus.NewRegistry()
		env, err := newEnv(cmd, reg)
		if err != nil {
			return err
		}
		defer env.Close()

		host := env.Config.Server.Host
		if cmd.Flags().Changed("host") {
			host, _ = cmd.Flags().GetString("host")
		}
		port := env.Config.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		opts := []httpAdapter.Option{
			httpAdapter.WithRecipes(env.Recipes),
			httpAdapter.WithGatherer(reg),
			httpAdapter.WithLogger(env.Logger),
		}
		if env.Store != nil {
			opts = append(opts, httpAdapter.WithStore(env.Store))
		}

		srv := &http.Server{
			Addr:              httpAdapter.Addr(host, port),
			Handler:           httpAdapter.NewHandler(env.Builder, opts...),
			ReadHeaderTimeout: 5 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			env.Logger.Info("starting server", "addr", srv.Addr, "store", env.Config.Store.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			env.Logger.Info("start shutdown", "signal", ctx.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				env.Logger.Warn("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				return srv.Close()
			}
			env.Logger.Info("server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "", "Interface to bind (default from config)")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (default from config)")
}
