package core

// MaxRunnables is the capacity of the runnable arena
const MaxRunnables = 32

// Runnable is the static description of one periodic task.
// Durations are in milliseconds and are converted to ticks when the table
// is built.
type Runnable struct {
	Name           string
	PeriodMS       uint32
	InitialDelayMS uint32
	Callback       func()
}

// entry is a runnable as the dispatcher sees it: timing in ticks plus the
// runtime state that only the dispatcher touches.
type entry struct {
	name     string
	period   uint32
	delay    uint32
	callback func()

	nextDue uint32
	stats   TaskStats
}

// Table is the fixed, ordered set of runnables. Entries live in a
// fixed-size arena indexed by position; a lower index wins ties when several
// runnables are due in the same pass.
type Table struct {
	cfg     TickConfig
	entries [MaxRunnables]entry
	n       int
}

// NewTable validates the runnables and builds the table.
// Every configuration problem is reported as a *ConfigError.
func NewTable(cfg TickConfig, runnables ...Runnable) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(runnables) == 0 {
		return nil, ErrEmptyTable
	}
	if len(runnables) > MaxRunnables {
		return nil, ErrTooManyRunnables
	}

	t := &Table{cfg: cfg, n: len(runnables)}
	for i, r := range runnables {
		if r.Callback == nil {
			return nil, &ConfigError{Index: i, Name: r.Name, Err: ErrNilCallback}
		}
		if r.PeriodMS == 0 {
			return nil, &ConfigError{Index: i, Name: r.Name, Err: ErrZeroPeriod}
		}
		period, err := cfg.MSToTicks(r.PeriodMS)
		if err != nil {
			return nil, &ConfigError{Index: i, Name: r.Name, Err: err}
		}
		delay, err := cfg.MSToTicks(r.InitialDelayMS)
		if err != nil {
			return nil, &ConfigError{Index: i, Name: r.Name, Err: err}
		}

		t.entries[i] = entry{
			name:     r.Name,
			period:   period,
			delay:    delay,
			callback: r.Callback,
		}
	}
	return t, nil
}

// MustNewTable is NewTable for static firmware tables: a bad table halts
// startup with a panic.
func MustNewTable(cfg TickConfig, runnables ...Runnable) *Table {
	t, err := NewTable(cfg, runnables...)
	if err != nil {
		panic("runnable table: " + err.Error())
	}
	return t
}

// Initialize anchors every runnable's schedule at start + initial delay and
// clears its statistics.
func (t *Table) Initialize(start uint32) {
	for i := 0; i < t.n; i++ {
		e := &t.entries[i]
		e.nextDue = start + e.delay
		e.stats = TaskStats{}
	}
}

// Len returns the number of runnables
func (t *Table) Len() int { return t.n }

// TickConfig returns the tick configuration the table was built with
func (t *Table) TickConfig() TickConfig { return t.cfg }

// Name returns the diagnostic name of runnable i
func (t *Table) Name(i int) string { return t.entries[i].name }

// PeriodTicks returns the period of runnable i in ticks
func (t *Table) PeriodTicks(i int) uint32 { return t.entries[i].period }

// DelayTicks returns the initial delay of runnable i in ticks
func (t *Table) DelayTicks(i int) uint32 { return t.entries[i].delay }

// NextDue returns the tick at which runnable i is next due
func (t *Table) NextDue(i int) uint32 { return t.entries[i].nextDue }

// Stats returns a copy of runnable i's timing statistics
func (t *Table) Stats(i int) TaskStats { return t.entries[i].stats }
