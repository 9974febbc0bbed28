package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aptscout/aptscout/internal/monitoring"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scrape loop until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := buildEnv(cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		g, ctx := errgroup.WithContext(ctx)

		if cfg.Status.Addr != "" {
			srv := monitoring.NewServer(cfg.Status.Addr, env.Collector)
			g.Go(func() error {
				return srv.Run(ctx)
			})
		}

		g.Go(func() error {
			return loop(ctx, env)
		})

		if err := g.Wait(); err != nil && err != context.Canceled {
			return err
		}
		zap.L().Info("shutdown complete")
		return nil
	},
}

// loop runs cycles separated by the configured sleep interval. Cycle errors
// are logged, never fatal. In dev mode a single cycle runs and the loop exits.
func loop(ctx context.Context, env *env) error {
	interval := cfg.SleepInterval()
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		if err := env.Hunter.Cycle(ctx); err != nil {
			zap.L().Error("cycle failed", zap.Error(err))
		}
		if cfg.Dev {
			return nil
		}

		zap.L().Info("sleeping", zap.Duration("interval", interval))
		timer.Reset(interval)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
