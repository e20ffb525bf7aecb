package switches

import "runsched/core"

// Runnable names, in table order
const (
	ControlSwitchName     = "ControlSwitches_Runnable"
	SwitchDebouncingName  = "Switch Debouncing Runnable"
	ControlSwitchIndex    = 0
	SwitchDebouncingIndex = 1
)

// Runnables returns the switch demo runnables:
// control every 50 ms starting at 100 ms, debouncing every 5 ms starting at 50 ms.
func Runnables(deb *Debouncer, ctl *Control) []core.Runnable {
	return []core.Runnable{
		ControlSwitchIndex: {
			Name:           ControlSwitchName,
			PeriodMS:       50,
			InitialDelayMS: 100,
			Callback:       ctl.Update,
		},
		SwitchDebouncingIndex: {
			Name:           SwitchDebouncingName,
			PeriodMS:       5,
			InitialDelayMS: 50,
			Callback:       deb.Sample,
		},
	}
}

// DefaultTable builds the runnable table for the switch demo
func DefaultTable(cfg core.TickConfig, deb *Debouncer, ctl *Control) (*core.Table, error) {
	return core.NewTable(cfg, Runnables(deb, ctl)...)
}
