package core

// OverrunPolicy decides what happens when a runnable is found more than one
// full period past its due tick.
type OverrunPolicy uint8

const (
	// PolicySkip runs the task once and moves its schedule to the next
	// anchored tick in the future, dropping the missed periods.
	PolicySkip OverrunPolicy = iota

	// PolicyCatchUp runs the task once per missed period, up to the
	// dispatcher's catch-up limit per pass; anything beyond it is skipped.
	PolicyCatchUp
)

// DefaultMaxCatchUp bounds catch-up invocations of one task in one pass
const DefaultMaxCatchUp = 4

func (p OverrunPolicy) String() string {
	switch p {
	case PolicySkip:
		return "skip"
	case PolicyCatchUp:
		return "catch-up"
	default:
		return "unknown"
	}
}

// ParseOverrunPolicy maps "skip" / "catch-up" to a policy
func ParseOverrunPolicy(s string) (OverrunPolicy, bool) {
	switch s {
	case "skip", "":
		return PolicySkip, true
	case "catch-up", "catchup":
		return PolicyCatchUp, true
	default:
		return PolicySkip, false
	}
}

// TaskStats is the per-runnable timing record kept by the dispatcher
type TaskStats struct {
	Runs        uint32 // callback invocations
	Overruns    uint32 // passes that found the task a full period or more late
	Skipped     uint32 // periods dropped by the overrun policy
	MaxLateness uint32 // worst observed ticks between due tick and dispatch
	LastTick    uint32 // dispatcher tick of the most recent invocation
}

// OverrunEvent describes one overrun, reported once per task per pass
type OverrunEvent struct {
	Index    int
	Name     string
	Tick     uint32 // dispatcher tick of the pass
	Lateness uint32 // ticks past the due tick
	Runs     uint32 // invocations made in this pass
	Skipped  uint32 // periods dropped in this pass
	Policy   OverrunPolicy
}

// resolveOverrun splits the instances due at now into those to run and
// those to skip. late is how far now is past nextDue and must be >= period.
func resolveOverrun(policy OverrunPolicy, maxCatchUp, late, period uint32) (runs, skipped uint32) {
	due := late/period + 1
	runs = 1
	if policy == PolicyCatchUp {
		runs = due
		if runs > maxCatchUp {
			runs = maxCatchUp
		}
	}
	return runs, due - runs
}
