package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single scrape cycle and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := buildEnv(cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		return env.Hunter.Cycle(ctx)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
