package cli

import (
	"context"

	"github.com/spf13/cobra"

	"runsched/host/monitor"
	"runsched/host/serial"
)

func newMonitorCmd() *cobra.Command {
	var device string
	var baud int

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Log the scheduler trace a board writes to its USB serial port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := serial.DefaultConfig(device)
			cfg.Baud = baud

			port, err := serial.Open(cfg)
			if err != nil {
				return err
			}
			// Close is idempotent: both the deferred call and the
			// cancellation watcher may reach it
			defer port.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go func() {
				// Unblock the reader on cancellation
				<-ctx.Done()
				_ = port.Close()
			}()

			logger.Info().Str("device", device).Msg("monitoring scheduler trace")
			err = monitor.Scan(ctx, port, logEvent, func(line string, err error) {
				logger.Warn().Err(err).Str("line", line).Msg("malformed trace line")
			})
			if ctx.Err() != nil {
				// Interrupted: the read error is just the closed port
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&device, "device", "/dev/ttyACM0", "Serial device path")
	cmd.Flags().IntVar(&baud, "baud", 115200, "Baud rate (ignored for USB CDC)")

	return cmd
}

func logEvent(ev monitor.Event) {
	switch ev.Kind {
	case monitor.KindInit:
		logger.Info().Int("runnables", ev.Runnables).Uint32("tick", ev.Tick).Msg("scheduler initialized")
	case monitor.KindOverrun:
		logger.Warn().
			Int("idx", ev.Index).
			Str("runnable", ev.Name).
			Uint32("tick", ev.Tick).
			Uint32("late", ev.Late).
			Uint32("runs", ev.Runs).
			Uint32("skipped", ev.Skipped).
			Msg("runnable overrun")
	default:
		logger.Debug().
			Int("idx", ev.Index).
			Str("runnable", ev.Name).
			Uint32("tick", ev.Tick).
			Uint32("late", ev.Late).
			Msg("dispatch")
	}
}
