package core

import "errors"

// Tick source defaults, matching a 16 MHz Cortex-M core with a 1 ms SysTick
const (
	DefaultClockHz      = 16000000
	DefaultResolutionUS = 1000

	// MaxSysTickReload is the largest value the 24-bit SysTick reload register holds
	MaxSysTickReload = 0x00FFFFFF

	// maxWrapSafeTicks bounds any duration so that signed tick differences
	// never overflow
	maxWrapSafeTicks = 1<<31 - 1
)

// TickConfig describes the hardware tick source: the core clock feeding the
// timer and the length of one tick quantum.
type TickConfig struct {
	ClockHz      uint32
	ResolutionUS uint32
}

// DefaultTickConfig returns the 16 MHz / 1 ms configuration
func DefaultTickConfig() TickConfig {
	return TickConfig{
		ClockHz:      DefaultClockHz,
		ResolutionUS: DefaultResolutionUS,
	}
}

// CyclesPerTick returns the number of core clock cycles in one tick
func (c TickConfig) CyclesPerTick() uint64 {
	return uint64(c.ClockHz) * uint64(c.ResolutionUS) / 1000000
}

// ReloadValue returns the timer reload value that produces one interrupt per tick
func (c TickConfig) ReloadValue() uint32 {
	return uint32(c.CyclesPerTick() - 1)
}

// Validate checks that the configuration describes a realizable tick source
func (c TickConfig) Validate() error {
	if c.ClockHz == 0 {
		return errors.Join(ErrInvalidTickConfig, errors.New("clock frequency is 0"))
	}
	if c.ResolutionUS == 0 {
		return errors.Join(ErrInvalidTickConfig, errors.New("tick resolution is 0"))
	}
	cycles := c.CyclesPerTick()
	if cycles == 0 {
		return errors.Join(ErrInvalidTickConfig, errors.New("tick shorter than one clock cycle"))
	}
	if cycles-1 > MaxSysTickReload {
		return errors.Join(ErrInvalidTickConfig, errors.New("reload value "+utoa64(cycles-1)+" exceeds 24 bits"))
	}
	return nil
}

// MSToTicks converts a duration in milliseconds to tick quanta.
// Durations that do not divide evenly into ticks are rejected rather than
// rounded, since rounding would silently shift a task's schedule.
func (c TickConfig) MSToTicks(ms uint32) (uint32, error) {
	us := uint64(ms) * 1000
	res := uint64(c.ResolutionUS)
	if res == 0 {
		return 0, ErrInvalidTickConfig
	}
	if us%res != 0 {
		return 0, ErrUnalignedDuration
	}
	ticks := us / res
	if ticks > maxWrapSafeTicks {
		return 0, ErrDurationTooLong
	}
	return uint32(ticks), nil
}

// TicksToMS converts tick quanta back to milliseconds
func (c TickConfig) TicksToMS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * uint64(c.ResolutionUS) / 1000)
}
