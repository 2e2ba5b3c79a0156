package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nward/commutetrack/internal/scheduler"
	"github.com/nward/commutetrack/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run commutetrack continuously with an HTTP trigger",
	Long: `Run passes on the configured cadence and expose an HTTP endpoint that
triggers a pass on demand (GET /run), for cloud schedulers that invoke over
HTTP instead of executing a binary.

Example:
  commutetrack serve --config ./commutetrack.yaml --addr :8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("config", "c", "commutetrack.yaml", "Path to configuration file")
	serveCmd.Flags().StringP("addr", "a", ":8080", "HTTP server address (host:port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	addr, _ := cmd.Flags().GetString("addr")

	rt, err := newRuntime(configPath)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := setupSignalHandler()

	sched := scheduler.New(ctx, logger)
	if err := sched.Schedule(rt.cfg.Defaults.Schedule, func(passCtx context.Context) error {
		_, err := rt.tracker.Run(passCtx)
		return err
	}); err != nil {
		return fmt.Errorf("failed to schedule passes: %w", err)
	}

	srv := server.New(addr, rt.tracker, rt.cfg.Routes, rt.store, logger)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sched.Start()
		<-gCtx.Done()
		return nil
	})

	g.Go(func() error {
		if err := srv.Start(gCtx); err != nil && err != context.Canceled {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down gracefully...")

		if err := sched.Stop(); err != nil {
			logger.Error("error stopping scheduler", "error", err)
		}
		if err := srv.Stop(context.Background()); err != nil {
			logger.Error("error stopping server", "error", err)
		}
		return nil
	})

	logger.Info("commutetrack serve mode started",
		"schedule", rt.cfg.Defaults.Schedule,
		"trigger_url", fmt.Sprintf("http://localhost%s/run", addr))

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("error during execution", "error", err)
		return err
	}

	logger.Info("commutetrack stopped")
	return nil
}
