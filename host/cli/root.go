// Package cli implements the runsched-host command line.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"runsched/host/logging"
)

var (
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger zerolog.Logger
)

// NewRootCmd creates the root cobra command for runsched-host
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "runsched-host",
		Short: "Host tools for the runsched cooperative scheduler",
		Long: "runsched-host simulates runnable tables on a virtual tick source, runs them\n" +
			"against the wall clock, and monitors the trace output of a running board.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.New(logging.ParseLevel(flagLogLevel), flagLogFormat, cmd.ErrOrStderr())
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", envOr("RUNSCHED_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newSimulateCmd(),
		newRunCmd(),
		newMonitorCmd(),
	)

	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
