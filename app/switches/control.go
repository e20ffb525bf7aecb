package switches

// Control toggles an output on every press of a debounced switch
type Control struct {
	sw  interface{ Pressed() bool }
	out Output

	on         bool
	wasPressed bool
	presses    uint32
}

// NewControl creates the control state machine. The output starts off.
func NewControl(sw interface{ Pressed() bool }, out Output) *Control {
	out.Set(false)
	return &Control{sw: sw, out: out}
}

// Update checks the switch for a released->pressed edge
func (c *Control) Update() {
	pressed := c.sw.Pressed()
	if pressed && !c.wasPressed {
		c.on = !c.on
		c.out.Set(c.on)
		c.presses++
	}
	c.wasPressed = pressed
}

// On returns the current output state
func (c *Control) On() bool { return c.on }

// Presses returns how many presses have been seen
func (c *Control) Presses() uint32 { return c.presses }
