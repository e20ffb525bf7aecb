//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// irqMask stands in for the CPU's global interrupt mask on regular Go.
// The simulated tick source takes it in OnTick, so holding it keeps the
// "ISR" out exactly like disabling interrupts does on hardware.
var irqMask sync.Mutex

// disableInterrupts masks the simulated tick interrupt
func disableInterrupts() State {
	irqMask.Lock()
	return 0
}

// restoreInterrupts unmasks the simulated tick interrupt
func restoreInterrupts(state State) {
	irqMask.Unlock()
}
