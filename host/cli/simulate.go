package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"runsched/core"
	"runsched/host/config"
	"runsched/host/logging"
	"runsched/host/sim"
	"runsched/host/tracedb"
)

type simulateOptions struct {
	configPath string
	ticks      uint32
	start      uint32
	dbPath     string
	label      string
	watch      bool
	quiet      bool
}

func newSimulateCmd() *cobra.Command {
	var opts simulateOptions

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a runnable table on a simulated tick source and print the trace",
		Long: `simulate drives the dispatcher with a virtual 1-tick-per-step interrupt, so
the output is fully deterministic. Runnables with cost_ticks hold the main
loop for that many ticks, which is how overruns are reproduced.

Without --config the built-in switch demo table is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch && opts.configPath == "" {
				return fmt.Errorf("--watch needs --config")
			}

			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if err := simulate(cmd.Context(), cmd.OutOrStdout(), cfg, opts); err != nil {
				return err
			}
			if !opts.watch {
				return nil
			}

			logger.Info().Str("path", opts.configPath).Msg("watching config for changes")
			return config.Watch(cmd.Context(), opts.configPath, func(cfg *config.File, err error) {
				if err != nil {
					logger.Error().Err(err).Msg("config reload failed")
					return
				}
				if err := simulate(cmd.Context(), cmd.OutOrStdout(), cfg, opts); err != nil {
					logger.Error().Err(err).Msg("simulation failed")
				}
			})
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "YAML runnable table (default: built-in switch demo)")
	cmd.Flags().Uint32VarP(&opts.ticks, "ticks", "n", 200, "Number of ticks to simulate")
	cmd.Flags().Uint32Var(&opts.start, "start", 0, "Initial tick counter value (use a value near 4294967295 to exercise wrap-around)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "Store the trace in this SQLite database")
	cmd.Flags().StringVar(&opts.label, "label", "", "Label for the stored run (default: config path)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run whenever the config file changes")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Only print per-runnable statistics")

	return cmd
}

func simulate(ctx context.Context, out io.Writer, cfg *config.File, opts simulateOptions) error {
	overruns := logging.NewOverrunLogger(logger, 10, 20)
	clk, err := sim.New(cfg, core.WithOverrunHook(overruns.Log))
	if err != nil {
		return fmt.Errorf("build table: %w", err)
	}

	clk.Start(opts.start)
	clk.Run(opts.ticks)

	logger.Debug().
		Uint32("start", opts.start).
		Uint32("ticks", opts.ticks).
		Int("invocations", len(clk.Trace())).
		Str("policy", cfg.Policy().String()).
		Msg("simulation complete")

	if !opts.quiet {
		if err := printTrace(out, clk.Trace()); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	if err := printStats(out, clk.Table()); err != nil {
		return err
	}

	if opts.dbPath == "" {
		return nil
	}
	return saveTrace(ctx, opts, cfg, clk.Trace())
}

func saveTrace(ctx context.Context, opts simulateOptions, cfg *config.File, trace []sim.Invocation) error {
	db, err := tracedb.Open(ctx, opts.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	label := opts.label
	if label == "" {
		label = opts.configPath
	}
	if label == "" {
		label = "default"
	}

	id, err := db.SaveRun(ctx, tracedb.Run{
		Label:     label,
		Policy:    cfg.Policy().String(),
		StartTick: opts.start,
		Ticks:     opts.ticks,
	}, trace)
	if err != nil {
		return fmt.Errorf("save trace: %w", err)
	}
	logger.Info().Int64("run", id).Str("db", opts.dbPath).Int("invocations", len(trace)).Msg("trace stored")
	return nil
}
