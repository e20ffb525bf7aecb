// Package sim runs a runnable table against a simulated tick source on the
// host. The test or tool plays the role of the timer interrupt, so every run
// is deterministic.
package sim

import (
	"runsched/core"
	"runsched/host/config"
)

// Invocation is one recorded callback run
type Invocation struct {
	Index    int
	Name     string
	Tick     uint32 // dispatcher tick the callback ran at
	Due      uint32 // anchored tick it was scheduled for
	Lateness uint32
}

// Clock owns a tick counter and a dispatcher and records every dispatch
type Clock struct {
	ticks *core.TickCounter
	d     *core.Dispatcher
	table *core.Table
	trace []Invocation
	costs []uint32
}

// New builds a simulation from a configuration file. Extra options are
// passed to the dispatcher after the ones derived from cfg.
func New(cfg *config.File, opts ...core.Option) (*Clock, error) {
	c := &Clock{
		ticks: core.NewTickCounter(),
		costs: make([]uint32, len(cfg.Runnables)),
	}

	runnables := make([]core.Runnable, len(cfg.Runnables))
	for i, spec := range cfg.Runnables {
		c.costs[i] = spec.CostTicks
		i := i
		runnables[i] = core.Runnable{
			Name:           spec.Name,
			PeriodMS:       spec.PeriodMS,
			InitialDelayMS: spec.InitialDelayMS,
			Callback:       func() { c.work(i) },
		}
	}

	table, err := core.NewTable(cfg.TickConfig(), runnables...)
	if err != nil {
		return nil, err
	}
	c.table = table

	all := []core.Option{
		core.WithOverrunPolicy(cfg.Policy()),
		core.WithMaxCatchUp(cfg.MaxCatchUp),
		core.WithDispatchHook(c.record),
	}
	all = append(all, opts...)
	c.d = core.NewDispatcher(table, c.ticks, all...)
	return c, nil
}

// work stands in for a callback body: the timer keeps interrupting while
// it runs, so its cost shows up as pending ticks for the next pass.
func (c *Clock) work(i int) {
	for n := uint32(0); n < c.costs[i]; n++ {
		c.ticks.OnTick()
	}
}

func (c *Clock) record(ev core.Dispatch) {
	c.trace = append(c.trace, Invocation{
		Index:    ev.Index,
		Name:     c.table.Name(ev.Index),
		Tick:     ev.Tick,
		Due:      ev.Due,
		Lateness: ev.Lateness,
	})
}

// Start presets the tick counter to start and initializes the dispatcher
func (c *Clock) Start(start uint32) {
	c.ticks.SetNow(start)
	c.d.Initialize()
}

// Step delivers one tick interrupt and runs one main loop pass
func (c *Clock) Step() {
	c.ticks.OnTick()
	c.d.RunOnce(c.ticks.ConsumeElapsedTicks())
}

// Stall delivers n tick interrupts while the main loop is blocked, then lets
// it run one pass
func (c *Clock) Stall(n uint32) {
	for i := uint32(0); i < n; i++ {
		c.ticks.OnTick()
	}
	c.d.RunOnce(c.ticks.ConsumeElapsedTicks())
}

// Run simulates the main loop until the tick counter has advanced n ticks.
// When callbacks leave ticks pending the loop picks them up immediately,
// without waiting for a new interrupt, as the firmware does.
func (c *Clock) Run(n uint32) {
	end := c.ticks.Now() + n
	for !core.TickReached(c.ticks.Now(), end) {
		if c.ticks.Pending() == 0 {
			c.ticks.OnTick()
		}
		c.d.RunOnce(c.ticks.ConsumeElapsedTicks())
	}
}

// Trace returns the invocations recorded so far
func (c *Clock) Trace() []Invocation { return c.trace }

// ResetTrace drops the recorded invocations. Slices returned by earlier
// Trace calls are left untouched.
func (c *Clock) ResetTrace() { c.trace = nil }

// Dispatcher returns the simulated dispatcher
func (c *Clock) Dispatcher() *core.Dispatcher { return c.d }

// Ticks returns the simulated tick counter
func (c *Clock) Ticks() *core.TickCounter { return c.ticks }

// Table returns the runnable table
func (c *Clock) Table() *core.Table { return c.table }
