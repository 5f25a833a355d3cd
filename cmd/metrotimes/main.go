// Package main is the entry point for the metrotimes CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/metrics"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	metrics.Version = version

	root := &cobra.Command{
		Use:     "metrotimes",
		Short:   "Transit board display for WMATA incidents, trains and buses",
		Version: version,
	}
	root.PersistentFlags().String("config", "", "config file (default: metrotimes.toml searched up from the working directory)")

	root.AddCommand(
		runCmd(),
		replayCmd(),
		checkCmd(),
		initCmd(),
	)

	return root
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
