//go:build rp2040

package main

import (
	"device/rp"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"runsched/core"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerALARM3   = timerBase + 0x1C // Alarm 3 compare value (writing arms it)
	timerTIMERAWL = timerBase + 0x28 // Raw timer low word
	timerINTR     = timerBase + 0x34 // Raw interrupts (write 1 to clear)
	timerINTE     = timerBase + 0x38 // Interrupt enable

	// TimerFreqHz is the RP2040 timer's fixed 1 MHz count rate
	TimerFreqHz = 1000000

	// The TinyGo runtime uses alarm 0 for sleep; the tick source takes alarm 3
	tickAlarm = 3
)

var (
	timerAlarm = (*volatile.Register32)(unsafe.Pointer(uintptr(timerALARM3)))
	timerRAWL  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
	timerIntr  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTR)))
	timerInte  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTE)))

	// tick source state, only touched by StartTickSource and the alarm ISR
	tickCounter *core.TickCounter
	tickStep    uint32
	nextAlarm   uint32
)

// TickConfig returns the tick configuration for the RP2040 timer:
// a 1 MHz count rate and a 1 ms quantum
func TickConfig() core.TickConfig {
	return core.TickConfig{
		ClockHz:      TimerFreqHz,
		ResolutionUS: core.DefaultResolutionUS,
	}
}

// GetHardwareTime reads the RP2040 hardware timer
// Returns the low 32 bits of the microsecond counter
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// StartTickSource arms timer alarm 3 to call ticks.OnTick once per quantum.
// The alarm is re-armed by adding the reload step to the previous compare
// value, so interrupt latency never accumulates into drift.
func StartTickSource(cfg core.TickConfig, ticks *core.TickCounter) {
	tickCounter = ticks
	tickStep = cfg.ReloadValue() + 1

	intr := interrupt.New(rp.IRQ_TIMER_IRQ_3, alarmHandler)

	nextAlarm = GetHardwareTime() + tickStep
	timerIntr.Set(1 << tickAlarm)
	timerInte.SetBits(1 << tickAlarm)
	timerAlarm.Set(nextAlarm)

	intr.Enable()
}

// alarmHandler is the tick ISR
func alarmHandler(interrupt.Interrupt) {
	timerIntr.Set(1 << tickAlarm)

	// The alarm only fires on an exact match, so a compare value that is
	// already in the past would not fire for another 71 minutes. Deliver the
	// missed ticks instead and re-arm in the future.
	for {
		tickCounter.OnTick()
		nextAlarm += tickStep
		if int32(nextAlarm-GetHardwareTime()) > 0 {
			break
		}
	}
	timerAlarm.Set(nextAlarm)
}
