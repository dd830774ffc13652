package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/writerkit/internal/api"
	"github.com/dgallion1/writerkit/internal/batch"
	"github.com/dgallion1/writerkit/internal/stats"
	"github.com/dgallion1/writerkit/internal/toolkit"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateServer(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	log := a.log

	// Batch retrieval is optional for the server.
	var batches *batch.Client
	if a.cfg.ValidateBatch() == nil {
		batches = batch.NewClient(a.cfg.AnthropicAPIKey, a.cfg.AnthropicBaseURL)
		batches.Stats = stats.NewLatency(a.cfg.StatsWindow)
		defer batches.Close()
	} else {
		log.Warn("ANTHROPIC_API_KEY not set, batch endpoints disabled")
	}

	state := toolkit.NewState(a.cfg.ProjectsDir, a.cfg.ToolsDBPath, log)
	if err := state.Init(); err != nil {
		return err
	}
	defer state.Close()

	srv := api.NewServer(batches, state, log, a.cfg)

	httpServer := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting writerkit", "port", a.cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
