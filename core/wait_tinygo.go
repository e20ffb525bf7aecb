//go:build tinygo

package core

import (
	"context"
	"runtime"
)

// notify is a no-op on TinyGo: channel operations are not allowed in an
// interrupt handler, so WaitTick polls the pending count instead.
func (c *TickCounter) notify() {}

// WaitTick busy-waits until at least one tick is pending or ctx is done
func (c *TickCounter) WaitTick(ctx context.Context) error {
	for c.Pending() == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		runtime.Gosched()
	}
	return nil
}
