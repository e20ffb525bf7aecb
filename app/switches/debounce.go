package switches

// DefaultThreshold is the number of identical samples needed to accept a
// new level (4 samples at a 5 ms period = 20 ms)
const DefaultThreshold = 4

// Debouncer filters a mechanical switch. Sample is meant to be called as a
// periodic runnable; a new level is accepted only after Threshold
// consecutive identical samples.
type Debouncer struct {
	in        Input
	activeLow bool
	threshold uint8

	last    bool // most recent raw sample, already polarity corrected
	count   uint8
	pressed bool
}

// NewDebouncer creates a debouncer for in. activeLow is true for a switch
// wired to ground with a pull-up.
func NewDebouncer(in Input, activeLow bool, threshold uint8) *Debouncer {
	if threshold == 0 {
		threshold = 1
	}
	return &Debouncer{
		in:        in,
		activeLow: activeLow,
		threshold: threshold,
	}
}

// Sample reads the input once and updates the debounced state
func (d *Debouncer) Sample() {
	raw := d.in.Get()
	if d.activeLow {
		raw = !raw
	}

	if raw != d.last {
		d.last = raw
		d.count = 0
	}
	if d.count < d.threshold {
		d.count++
	}
	if d.count >= d.threshold {
		d.pressed = raw
	}
}

// Pressed returns the debounced switch state
func (d *Debouncer) Pressed() bool {
	return d.pressed
}
