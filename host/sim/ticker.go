package sim

import (
	"context"
	"time"

	"runsched/core"
)

// TickerSource drives a tick counter from the wall clock. Its goroutine is
// the host's stand-in for the timer interrupt.
type TickerSource struct {
	ticks  *core.TickCounter
	period time.Duration
}

// NewTickerSource creates a source that calls ticks.OnTick every period
func NewTickerSource(ticks *core.TickCounter, period time.Duration) *TickerSource {
	return &TickerSource{ticks: ticks, period: period}
}

// Period returns the tick quantum
func (s *TickerSource) Period() time.Duration { return s.period }

// Run ticks until ctx is done. time.Ticker drops ticks for a slow receiver;
// Run never blocks between ticks, so that only happens if the host is
// starved, and the dispatcher then sees it as a longer pass.
func (s *TickerSource) Run(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ticks.OnTick()
		}
	}
}
