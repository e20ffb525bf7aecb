package core

// DebugWriter receives one trace line without a line terminator. The slice
// is only valid for the duration of the call.
type DebugWriter func(line []byte)

// TimingEvent captures a scheduler event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	Index     uint8  // Runnable index
	Tick      uint32 // Dispatcher tick at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtInit     = 1 // Dispatcher initialized (v1=runnable count)
	EvtDispatch = 2 // Callback invoked (v1=due tick, v2=lateness)
	EvtOverrun  = 3 // Overrun detected (v1=lateness, v2=skipped periods)
	EvtSkip     = 4 // Periods skipped (v1=skipped periods, v2=new due tick)
)

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugWriter is the global trace output (can be set by platform code)
	debugWriter DebugWriter

	// debugEnabled controls whether trace lines are produced at all.
	// Disabled by default; writing a line costs more than a dispatch.
	debugEnabled bool = false

	// Timing capture ring buffer (non-blocking, for post-mortem)
	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8        // Next write position
	timingEnabled  bool  = true // Always capture timing events

	// dumpLine is the formatting buffer for DumpTimingRing
	dumpLine traceLine
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugWriter = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// debugWrite sends a formatted line to the platform writer
func debugWrite(l *traceLine) {
	if debugEnabled && debugWriter != nil {
		debugWriter(l.bytes())
	}
}

// RecordTiming captures a timing event in the ring buffer
// This is always non-blocking and very fast (~20ns)
func RecordTiming(eventType, index uint8, tick, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		Index:     index,
		Tick:      tick,
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (idx + 1) % TimingRingSize
}

// TimingEvents returns the recorded events, oldest first
func TimingEvents() []TimingEvent {
	events := make([]TimingEvent, 0, TimingRingSize)
	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// EventName returns the trace name of a timing event type
func EventName(eventType uint8) string {
	switch eventType {
	case EvtInit:
		return "INIT"
	case EvtDispatch:
		return "DISPATCH"
	case EvtOverrun:
		return "OVERRUN"
	case EvtSkip:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// DumpTimingRing outputs the timing ring buffer, oldest first (call on
// overrun/error). It walks the ring in place and does not allocate.
func DumpTimingRing() {
	if debugWriter == nil {
		return
	}

	dumpLine.reset()
	dumpLine.str("[TIMING] === Timing Ring Dump ===")
	debugWriter(dumpLine.bytes())

	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := &timingRing[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		dumpLine.reset()
		dumpLine.str("[TIMING] ")
		dumpLine.str(EventName(evt.EventType))
		dumpLine.field("idx", uint32(evt.Index))
		dumpLine.field("tick", evt.Tick)
		dumpLine.field("v1", evt.Value1)
		dumpLine.field("v2", evt.Value2)
		debugWriter(dumpLine.bytes())
	}

	dumpLine.reset()
	dumpLine.str("[TIMING] === End Dump ===")
	debugWriter(dumpLine.bytes())
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
}
