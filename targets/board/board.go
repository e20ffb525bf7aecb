//go:build rp2040 || rp2350

// Package board wires the switch demo table to a Pico-style board. Each
// target supplies its tick source and debug output; everything else is
// shared.
package board

import (
	"context"
	"machine"

	"runsched/app/switches"
	"runsched/core"
)

// Config is what a target provides
type Config struct {
	Tick core.TickConfig

	SwitchPin machine.Pin // to ground, internal pull-up
	LEDPin    machine.Pin
	StatusPin machine.Pin // WS2812 data

	// Debug receives trace lines; nil disables tracing
	Debug core.DebugWriter

	// StartTickSource arms the hardware timer to call ticks.OnTick once
	// per quantum
	StartTickSource func(cfg core.TickConfig, ticks *core.TickCounter)
}

// Run builds the runnable table and runs the dispatcher. It does not return.
func Run(cfg Config) {
	if cfg.Debug != nil {
		core.SetDebugWriter(cfg.Debug)
		core.SetDebugEnabled(true)
	}

	cfg.SwitchPin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	cfg.LEDPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	deb := switches.NewDebouncer(cfg.SwitchPin, true, switches.DefaultThreshold)
	ctl := switches.NewControl(deb, cfg.LEDPin)

	// A bad static table halts here
	table := core.MustNewTable(cfg.Tick, switches.Runnables(deb, ctl)...)

	status := NewStatusPixel(cfg.StatusPin)
	ticks := core.NewTickCounter()
	dispatcher := core.NewDispatcher(table, ticks,
		core.WithOverrunPolicy(core.PolicySkip),
		core.WithOverrunHook(func(core.OverrunEvent) {
			// Post-mortem of the events leading up to the first overrun
			if status.Overrun() {
				core.DumpTimingRing()
			}
		}),
	)

	cfg.StartTickSource(cfg.Tick, ticks)

	// Never returns: the dispatcher is the main control flow
	_ = dispatcher.Run(context.Background())
}
