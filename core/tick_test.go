package core

import (
	"sync"
	"testing"
)

func TestConsumeElapsedTicks(t *testing.T) {
	c := NewTickCounter()

	for i := 0; i < 3; i++ {
		c.OnTick()
	}

	if got := c.ConsumeElapsedTicks(); got != 3 {
		t.Errorf("Expected 3 elapsed ticks, got %d", got)
	}
	if got := c.ConsumeElapsedTicks(); got != 0 {
		t.Errorf("Expected 0 elapsed ticks on immediate second call, got %d", got)
	}
	if got := c.Now(); got != 3 {
		t.Errorf("Expected Now()=3, got %d", got)
	}
}

func TestConsumeElapsedTicksConcurrent(t *testing.T) {
	c := NewTickCounter()
	const ticks = 20000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < ticks; i++ {
			c.OnTick()
		}
	}()

	var total uint32
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

consume:
	for {
		select {
		case <-done:
			break consume
		default:
			total += c.ConsumeElapsedTicks()
		}
	}
	total += c.ConsumeElapsedTicks()

	if total != ticks {
		t.Errorf("Expected %d ticks consumed in total, got %d", ticks, total)
	}
	if c.Now() != ticks {
		t.Errorf("Expected Now()=%d, got %d", ticks, c.Now())
	}
}

func TestTickCounterWraps(t *testing.T) {
	c := NewTickCounter()
	c.SetNow(0xFFFFFFFE)

	c.OnTick()
	c.OnTick()
	c.OnTick()

	if got := c.Now(); got != 1 {
		t.Errorf("Expected counter to wrap to 1, got %d", got)
	}
	if got := c.ConsumeElapsedTicks(); got != 3 {
		t.Errorf("Expected 3 elapsed ticks across wrap, got %d", got)
	}
}

func TestLatchClearsPending(t *testing.T) {
	c := NewTickCounter()
	c.OnTick()
	c.OnTick()

	if now := c.Latch(); now != 2 {
		t.Errorf("Expected Latch()=2, got %d", now)
	}
	if p := c.Pending(); p != 0 {
		t.Errorf("Expected no pending ticks after Latch, got %d", p)
	}
}

func TestTickReached(t *testing.T) {
	testCases := []struct {
		now, target uint32
		reached     bool
	}{
		{now: 0, target: 0, reached: true},
		{now: 10, target: 5, reached: true},
		{now: 5, target: 10, reached: false},
		{now: 2, target: 0xFFFFFFFE, reached: true},          // target before wrap, now after
		{now: 0xFFFFFFFE, target: 2, reached: false},         // target after wrap
		{now: 0x7FFFFFFF, target: 0, reached: true},          // largest reachable distance
		{now: 0xFFFFFFFF, target: 0xFFFFFFFF, reached: true}, // exactly at max
	}

	for _, tc := range testCases {
		if got := TickReached(tc.now, tc.target); got != tc.reached {
			t.Errorf("TickReached(%#x, %#x) = %v, expected %v", tc.now, tc.target, got, tc.reached)
		}
	}

	if got := TicksSince(3, 0xFFFFFFFF); got != 4 {
		t.Errorf("Expected 4 ticks across wrap, got %d", got)
	}
	if got := TicksSince(1, 5); got != 0 {
		t.Errorf("Expected 0 ticks for a future target, got %d", got)
	}
}
