package core

import "context"

// Dispatch describes one callback invocation, passed to the trace hook
// before the callback runs.
type Dispatch struct {
	Index    int
	Tick     uint32 // dispatcher tick of the pass
	Due      uint32 // tick the invocation was scheduled for
	Lateness uint32
}

// Dispatcher runs the runnable table from the main loop.
// All of its state, including the table's next-due ticks, is only touched
// from the goroutine that calls Run / RunOnce.
type Dispatcher struct {
	table *Table
	ticks *TickCounter

	policy     OverrunPolicy
	maxCatchUp uint32

	onDispatch func(Dispatch)
	onOverrun  func(OverrunEvent)

	now    uint32
	passes uint32

	line traceLine
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithOverrunPolicy selects the overrun policy (default PolicySkip)
func WithOverrunPolicy(p OverrunPolicy) Option {
	return func(d *Dispatcher) { d.policy = p }
}

// WithMaxCatchUp sets the per-pass catch-up limit for PolicyCatchUp
func WithMaxCatchUp(n uint32) Option {
	return func(d *Dispatcher) {
		if n == 0 {
			n = 1
		}
		d.maxCatchUp = n
	}
}

// WithDispatchHook registers fn to be called before every callback
func WithDispatchHook(fn func(Dispatch)) Option {
	return func(d *Dispatcher) { d.onDispatch = fn }
}

// WithOverrunHook registers fn to be called once per task per overrun
func WithOverrunHook(fn func(OverrunEvent)) Option {
	return func(d *Dispatcher) { d.onOverrun = fn }
}

// NewDispatcher creates a dispatcher for table driven by ticks
func NewDispatcher(table *Table, ticks *TickCounter, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		table:      table,
		ticks:      ticks,
		policy:     PolicySkip,
		maxCatchUp: DefaultMaxCatchUp,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Initialize takes the current tick as the schedule origin, anchors every
// runnable, and runs the tasks whose initial delay is zero.
func (d *Dispatcher) Initialize() {
	d.now = d.ticks.Latch()
	d.passes = 0
	d.table.Initialize(d.now)

	RecordTiming(EvtInit, 0, d.now, uint32(d.table.Len()), 0)
	if debugEnabled {
		d.line.reset()
		d.line.str("[SCHED] INIT")
		d.line.field("runnables", uint32(d.table.Len()))
		d.line.field("tick", d.now)
		debugWrite(&d.line)
	}

	d.RunOnce(0)
}

// Run is the scheduler main loop: wait for a tick, consume the elapsed
// ticks, dispatch. It only returns when ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.Initialize()
	for {
		if err := d.ticks.WaitTick(ctx); err != nil {
			return err
		}
		d.RunOnce(d.ticks.ConsumeElapsedTicks())
	}
}

// RunOnce advances the dispatcher clock by elapsed ticks and invokes every
// due runnable in table order. Callbacks run to completion before the next
// one starts.
func (d *Dispatcher) RunOnce(elapsed uint32) {
	d.now += elapsed
	d.passes++
	now := d.now

	t := d.table
	for i := 0; i < t.n; i++ {
		e := &t.entries[i]
		if !TickReached(now, e.nextDue) {
			continue
		}

		late := now - e.nextDue
		runs, skipped := uint32(1), uint32(0)
		if late >= e.period {
			runs, skipped = resolveOverrun(d.policy, d.maxCatchUp, late, e.period)
			d.overrun(i, e, late, runs, skipped)
		}

		for r := uint32(0); r < runs; r++ {
			d.invoke(i, e)
		}

		if skipped > 0 {
			e.nextDue += e.period * skipped
			e.stats.Skipped += skipped
			RecordTiming(EvtSkip, uint8(i), now, skipped, e.nextDue)
		}
	}
}

// invoke runs one instance of entry i and advances its anchored schedule
func (d *Dispatcher) invoke(i int, e *entry) {
	late := d.now - e.nextDue
	if late > e.stats.MaxLateness {
		e.stats.MaxLateness = late
	}
	e.stats.Runs++
	e.stats.LastTick = d.now

	RecordTiming(EvtDispatch, uint8(i), d.now, e.nextDue, late)
	if debugEnabled {
		d.line.reset()
		d.line.str("[SCHED] DISPATCH")
		d.line.field("idx", uint32(i))
		d.line.str(" name=")
		d.line.quoted(e.name)
		d.line.field("tick", d.now)
		d.line.field("late", late)
		debugWrite(&d.line)
	}
	if d.onDispatch != nil {
		d.onDispatch(Dispatch{Index: i, Tick: d.now, Due: e.nextDue, Lateness: late})
	}

	e.callback()
	e.nextDue += e.period
}

func (d *Dispatcher) overrun(i int, e *entry, late, runs, skipped uint32) {
	e.stats.Overruns++

	RecordTiming(EvtOverrun, uint8(i), d.now, late, skipped)
	if debugEnabled {
		d.line.reset()
		d.line.str("[SCHED] OVERRUN")
		d.line.field("idx", uint32(i))
		d.line.str(" name=")
		d.line.quoted(e.name)
		d.line.field("tick", d.now)
		d.line.field("late", late)
		d.line.field("runs", runs)
		d.line.field("skipped", skipped)
		debugWrite(&d.line)
	}
	if d.onOverrun != nil {
		d.onOverrun(OverrunEvent{
			Index:    i,
			Name:     e.name,
			Tick:     d.now,
			Lateness: late,
			Runs:     runs,
			Skipped:  skipped,
			Policy:   d.policy,
		})
	}
}

// Now returns the dispatcher's view of the current tick
func (d *Dispatcher) Now() uint32 { return d.now }

// Passes returns the number of RunOnce calls since Initialize
func (d *Dispatcher) Passes() uint32 { return d.passes }

// Table returns the runnable table being dispatched
func (d *Dispatcher) Table() *Table { return d.table }

// Policy returns the configured overrun policy
func (d *Dispatcher) Policy() OverrunPolicy { return d.policy }
