// Package input implements the NES controller serial-shift protocol
// as seen through the 0x4016/0x4017 bus registers. Host key mapping,
// polling cadence, and any GUI binding live outside this core; this
// package only reproduces the shift-register semantics a CPU program
// can rely on.
package input

// Button identifies one of the eight buttons reported by a standard
// NES controller, ordered the way the hardware shift register reports
// them: A, B, Select, Start, Up, Down, Left, Right.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller is a single standard NES controller: eight latched button
// states shifted out one bit per read once the strobe line goes low.
type Controller struct {
	buttons       uint8
	shiftRegister uint8
	strobe        bool
}

// New constructs a controller with no buttons held.
func New() *Controller {
	return &Controller{}
}

// SetButton updates one button's held state. Callers poll their input
// source and call this per button before the program next strobes.
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
}

// IsPressed reports whether button is currently held.
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&uint8(button) != 0
}

// Write handles a write to the controller's strobe register (0x4016).
// Bit 0 set loads the live button state into the shift register and
// keeps reloading it on every read; clearing it stops the reload, so
// the following reads shift out the state loaded while it was set.
func (c *Controller) Write(value uint8) {
	c.strobe = value&1 != 0
	if c.strobe {
		c.shiftRegister = c.buttons
	}
}

// Read returns the next bit of the shift register. While strobe is
// held high the register continuously reloads, so every read reports
// button A. Once eight bits have been shifted out, hardware pulls the
// data line high; this mirrors that rather than returning stale zero
// bits.
func (c *Controller) Read() uint8 {
	if c.strobe {
		c.shiftRegister = c.buttons
		return c.shiftRegister & 1
	}
	bit := c.shiftRegister & 1
	c.shiftRegister = (c.shiftRegister >> 1) | 0x80
	return bit
}

// Reset clears the shift register and the strobe. Button state set by
// the host ahead of reset is intentionally not cleared here; callers
// that want a clean slate call SetButton themselves.
func (c *Controller) Reset() {
	c.shiftRegister = 0
	c.strobe = false
}

// Pair bundles the two controller ports the bus exposes at
// 0x4016/0x4017. A write to 0x4016 strobes both ports simultaneously,
// matching how the hardware wires the strobe line.
type Pair struct {
	Port1 *Controller
	Port2 *Controller
}

// NewPair constructs two fresh controllers.
func NewPair() *Pair {
	return &Pair{Port1: New(), Port2: New()}
}

// Load reads 0x4016 or 0x4017; any other address returns 0.
func (p *Pair) Load(addr uint16) uint8 {
	switch addr {
	case 0x4016:
		return p.Port1.Read()
	case 0x4017:
		return p.Port2.Read()
	default:
		return 0
	}
}

// Store writes the shared strobe line. Only 0x4016 has an effect; a
// write to 0x4017 addresses the APU frame counter instead and is the
// bus's job to route there, not this package's.
func (p *Pair) Store(addr uint16, value uint8) {
	if addr == 0x4016 {
		p.Port1.Write(value)
		p.Port2.Write(value)
	}
}

// Reset resets both ports.
func (p *Pair) Reset() {
	p.Port1.Reset()
	p.Port2.Reset()
}
