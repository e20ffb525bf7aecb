package core

// TickCounter is the time base shared between the tick interrupt and the
// dispatcher. It is the only state written from interrupt context.
//
// now counts every tick since boot (modulo 2^32). pending counts ticks the
// dispatcher has not consumed yet. Both are only touched inside a critical
// section.
type TickCounter struct {
	now     uint32
	pending uint32

	// wake carries the "tick happened" signal on host builds
	wake chan struct{}
}

// NewTickCounter creates a counter starting at tick 0
func NewTickCounter() *TickCounter {
	return &TickCounter{
		wake: make(chan struct{}, 1),
	}
}

// OnTick must be called by the tick source exactly once per time quantum.
// It only increments the counters and raises the handshake signal, so it is
// safe to call from an interrupt handler.
func (c *TickCounter) OnTick() {
	state := disableInterrupts()
	c.now++
	c.pending++
	restoreInterrupts(state)

	c.notify()
}

// ConsumeElapsedTicks returns the number of ticks since the previous call
// and clears the pending count. The read and the clear happen in one
// critical section so a concurrent tick is never lost or counted twice.
func (c *TickCounter) ConsumeElapsedTicks() uint32 {
	state := disableInterrupts()
	elapsed := c.pending
	c.pending = 0
	restoreInterrupts(state)
	return elapsed
}

// Pending returns the number of unconsumed ticks without clearing them
func (c *TickCounter) Pending() uint32 {
	state := disableInterrupts()
	p := c.pending
	restoreInterrupts(state)
	return p
}

// Latch clears any pending ticks and returns the current tick count in one
// critical section. The dispatcher uses it to pick its time origin.
func (c *TickCounter) Latch() uint32 {
	state := disableInterrupts()
	c.pending = 0
	t := c.now
	restoreInterrupts(state)
	return t
}

// Now returns the current tick count
func (c *TickCounter) Now() uint32 {
	state := disableInterrupts()
	t := c.now
	restoreInterrupts(state)
	return t
}

// SetNow presets the tick count (for testing/hardware integration).
// Pending ticks are left untouched.
func (c *TickCounter) SetNow(ticks uint32) {
	state := disableInterrupts()
	c.now = ticks
	restoreInterrupts(state)
}

// TickReached reports whether tick now is at or past target.
// The difference is interpreted as signed, so the answer stays correct across
// counter wrap as long as the two are less than 2^31 ticks apart.
func TickReached(now, target uint32) bool {
	return int32(now-target) >= 0
}

// TicksSince returns how many ticks now is past target (0 if not reached)
func TicksSince(now, target uint32) uint32 {
	if !TickReached(now, target) {
		return 0
	}
	return now - target
}
