//go:build rp2350

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

	InitDebugUART()

	board.Run(board.Config{
		Tick:            TickConfig(),
		SwitchPin:       machine.GPIO14,
		LEDPin:          machine.LED,
		StatusPin:       machine.GPIO16,
		Debug:           DebugWriteLine,
		StartTickSource: StartTickSource,
	})
}
