//go:build rp2350

package main

import (
	"device/rp"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"runsched/core"
)

// RP2350 Timer peripheral memory map
// NOTE: RP2350 timer is at a DIFFERENT address than RP2040!
// - RP2040 TIMER: 0x40054000
// - RP2350 TIMER0: 0x400B0000
//
// Register offsets also moved: RP2350 inserts LOCKED and SOURCE before the
// interrupt registers, so INTR/INTE sit 8 bytes later than on RP2040.
// alarm[4] @ 0x10-0x1C
// timeRawL @ 0x28 - Raw read from lower 32b
// intr     @ 0x3C
// inte     @ 0x40
const (
	timerBase     = 0x400B0000       // RP2350 TIMER0 base address
	timerALARM3   = timerBase + 0x1C // Alarm 3 compare value (writing arms it)
	timerTimeRawL = timerBase + 0x28 // Raw timer low (no latching)
	timerINTR     = timerBase + 0x3C // Raw interrupts (write 1 to clear)
	timerINTE     = timerBase + 0x40 // Interrupt enable

	// TimerFreqHz is the 1 MHz tick TinyGo's clock setup feeds TIMER0
	TimerFreqHz = 1000000

	// The TinyGo runtime uses alarm 0 for sleep; the tick source takes alarm 3
	tickAlarm = 3
)

var (
	timerAlarm = (*volatile.Register32)(unsafe.Pointer(uintptr(timerALARM3)))
	timerRawL  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTimeRawL)))
	timerIntr  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTR)))
	timerInte  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTE)))

	tickCounter *core.TickCounter
	tickStep    uint32
	nextAlarm   uint32
)

// TickConfig returns the tick configuration for TIMER0: 1 MHz, 1 ms quantum
func TickConfig() core.TickConfig {
	return core.TickConfig{
		ClockHz:      TimerFreqHz,
		ResolutionUS: core.DefaultResolutionUS,
	}
}

// GetHardwareTime reads the RP2350 hardware timer
// Returns the low 32 bits of the microsecond counter
func GetHardwareTime() uint32 {
	return timerRawL.Get()
}

// StartTickSource arms TIMER0 alarm 3 to call ticks.OnTick once per quantum
func StartTickSource(cfg core.TickConfig, ticks *core.TickCounter) {
	// Wait for timer to stabilize after TinyGo's clock initialization
	_ = timerRawL.Get()
	_ = timerRawL.Get()

	tickCounter = ticks
	tickStep = cfg.ReloadValue() + 1

	intr := interrupt.New(rp.IRQ_TIMER0_IRQ_3, alarmHandler)

	nextAlarm = GetHardwareTime() + tickStep
	timerIntr.Set(1 << tickAlarm)
	timerInte.SetBits(1 << tickAlarm)
	timerAlarm.Set(nextAlarm)

	intr.Enable()
}

// alarmHandler is the tick ISR. Missed compare values are caught up here
// because the alarm only fires on an exact match.
func alarmHandler(interrupt.Interrupt) {
	timerIntr.Set(1 << tickAlarm)
	for {
		tickCounter.OnTick()
		nextAlarm += tickStep
		if int32(nextAlarm-GetHardwareTime()) > 0 {
			break
		}
	}
	timerAlarm.Set(nextAlarm)
}
