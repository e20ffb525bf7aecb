// Package switches holds the runnables from the switch demo table: a
// debouncer sampled every few milliseconds and a control state machine that
// toggles an output on each press.
package switches

// Input is a digital input the debouncer samples.
// machine.Pin satisfies it on TinyGo targets.
type Input interface {
	Get() bool
}

// Output is a digital output driven by the control runnable
type Output interface {
	Set(value bool)
}
