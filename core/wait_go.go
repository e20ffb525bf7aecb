//go:build !tinygo

package core

import "context"

// notify wakes a dispatcher blocked in WaitTick. Never blocks.
func (c *TickCounter) notify() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// WaitTick blocks until at least one tick is pending or ctx is done
func (c *TickCounter) WaitTick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for c.Pending() == 0 {
		select {
		case <-c.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
