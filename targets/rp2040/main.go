//go:build rp2040

package main

import (
	"machine"

	"runsched/targets/board"
)

func main() {
	// CRITICAL: Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()

	board.Run(board.Config{
		Tick:            TickConfig(),
		SwitchPin:       machine.GP14,
		LEDPin:          machine.LED,
		StatusPin:       machine.GP16,
		Debug:           USBWriteLine,
		StartTickSource: StartTickSource,
	})
}
