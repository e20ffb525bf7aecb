package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"runsched/core"
	"runsched/host/config"
	"runsched/host/logging"
	"runsched/host/sim"
)

func newRunCmd() *cobra.Command {
	var configPath string
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a runnable table against the wall clock",
		Long: `run drives the dispatcher from a time.Ticker at the configured tick
resolution. Runnables with cost_ticks sleep for that many ticks, blocking the
main loop like a misbehaving callback would. Dispatches are logged at debug
level; overruns are logged as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			table, err := runWallClock(ctx, cfg)
			if table != nil {
				if perr := printStats(cmd.OutOrStdout(), table); perr != nil {
					return perr
				}
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML runnable table (default: built-in switch demo)")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 2*time.Second, "How long to run (0 = until interrupted)")

	return cmd
}

// runWallClock runs cfg until ctx is done. The table is returned for its
// statistics even when the run ends with an error.
func runWallClock(ctx context.Context, cfg *config.File) (*core.Table, error) {
	quantum := time.Duration(cfg.Tick.ResolutionUS) * time.Microsecond

	runnables := make([]core.Runnable, len(cfg.Runnables))
	for i, spec := range cfg.Runnables {
		cost := time.Duration(spec.CostTicks) * quantum
		runnables[i] = core.Runnable{
			Name:           spec.Name,
			PeriodMS:       spec.PeriodMS,
			InitialDelayMS: spec.InitialDelayMS,
			Callback: func() {
				if cost > 0 {
					time.Sleep(cost)
				}
			},
		}
	}

	table, err := core.NewTable(cfg.TickConfig(), runnables...)
	if err != nil {
		return nil, err
	}

	ticks := core.NewTickCounter()
	overruns := logging.NewOverrunLogger(logger, 5, 10)
	d := core.NewDispatcher(table, ticks,
		core.WithOverrunPolicy(cfg.Policy()),
		core.WithMaxCatchUp(cfg.MaxCatchUp),
		core.WithOverrunHook(overruns.Log),
		core.WithDispatchHook(func(ev core.Dispatch) {
			logger.Debug().
				Int("idx", ev.Index).
				Str("runnable", table.Name(ev.Index)).
				Uint32("tick", ev.Tick).
				Uint32("late", ev.Lateness).
				Msg("dispatch")
		}),
	)

	src := sim.NewTickerSource(ticks, quantum)
	srcCtx, stopSource := context.WithCancel(ctx)
	defer stopSource()
	go src.Run(srcCtx)

	logger.Info().
		Int("runnables", table.Len()).
		Dur("quantum", quantum).
		Str("policy", d.Policy().String()).
		Msg("scheduler started")

	err = d.Run(ctx)
	logger.Info().Uint32("tick", d.Now()).Uint32("passes", d.Passes()).Msg("scheduler stopped")

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return table, nil
	}
	return table, err
}
