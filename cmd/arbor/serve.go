package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/aretw0/arbor/internal/adapters/http"
	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/pkg/evaluation"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the agent runtime in server mode, exposing conversations, tools and evaluations over a JSON API with Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		settings, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			settings.Server.Addr = addr
		}

		logger := cli.NewLogger(settings)
		provider, err := cli.NewProvider(settings, logger)
		if err != nil {
			return err
		}
		reg := cli.NewRegistry()

		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
		hooks := metrics.Hooks()

		sessions := cli.NewSessionManager(settings, provider, reg, logger, hooks)
		handler := httpAdapter.NewHandler(sessions, reg.Schemas(),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithEvaluatorFactory(func() (*evaluation.Evaluator, error) {
				agent, err := cli.NewAgent(settings, provider, reg, logger, hooks, "")
				if err != nil {
					return nil, err
				}
				return evaluation.New(agent, evaluation.WithLogger(logger)), nil
			}),
		)

		srv := &http.Server{
			Addr:    settings.Server.Addr,
			Handler: handler,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("server listening", "addr", srv.Addr, "model", settings.Agent.Model)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutdown started", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides config)")
}
