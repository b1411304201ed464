// Package controller models the Sega Master System's two 9-pin joystick
// ports: six digital buttons per pad, decoded the way the console's I/O
// chip packs them into ports 0xDC/0xDD, plus the TH line direction/latch
// behaviour exposed through the I/O control port (0x3F).
package controller

// Button identifies one of the six digital inputs on a pad.
type Button int

const (
	Up Button = iota
	Down
	Left
	Right
	Button1
	Button2
)

// Pad is one two-button joypad. Bits are tracked pressed=true internally;
// the active-low hardware encoding is applied when a port is read.
type Pad struct {
	pressed [6]bool
}

// SetPressed updates one button's state.
func (p *Pad) SetPressed(b Button, pressed bool) {
	p.pressed[b] = pressed
}

// Pressed reports whether b is currently held.
func (p *Pad) Pressed(b Button) bool {
	return p.pressed[b]
}

// Controllers holds both pads and the TH-line latch state driven through
// the I/O control port.
type Controllers struct {
	Pad1 Pad
	Pad2 Pad

	// ioControl is the last byte written to port 0x3F. Bits 1 and 3 select
	// TH1/TH2 as output; bits 5 and 7 are the latched output level when so
	// configured.
	ioControl uint8
}

// SetIOControl latches a write to port 0x3F.
func (c *Controllers) SetIOControl(v uint8) {
	c.ioControl = v
}

func (c *Controllers) th1() uint8 {
	if c.ioControl&0x02 != 0 { // TH1 configured as output
		return (c.ioControl >> 5) & 1
	}
	return 1 // input, no light gun/expansion device pulling it low
}

func (c *Controllers) th2() uint8 {
	if c.ioControl&0x08 != 0 { // TH2 configured as output
		return (c.ioControl >> 7) & 1
	}
	return 1
}

func activeLow(pressed bool) uint8 {
	if pressed {
		return 0
	}
	return 1
}

// ReadPortA returns the value of I/O port 0xDC: pad 1's four directions and
// two buttons, plus pad 2's up/down.
func (c *Controllers) ReadPortA() uint8 {
	var v uint8
	v |= activeLow(c.Pad1.Pressed(Up))
	v |= activeLow(c.Pad1.Pressed(Down)) << 1
	v |= activeLow(c.Pad1.Pressed(Left)) << 2
	v |= activeLow(c.Pad1.Pressed(Right)) << 3
	v |= activeLow(c.Pad1.Pressed(Button1)) << 4
	v |= activeLow(c.Pad1.Pressed(Button2)) << 5
	v |= activeLow(c.Pad2.Pressed(Up)) << 6
	v |= activeLow(c.Pad2.Pressed(Down)) << 7
	return v
}

// ReadPortB returns the value of I/O port 0xDD: pad 2's left/right and
// buttons, the (unimplemented, always released) reset line, and the two TH
// lines.
func (c *Controllers) ReadPortB() uint8 {
	var v uint8
	v |= activeLow(c.Pad2.Pressed(Left))
	v |= activeLow(c.Pad2.Pressed(Right)) << 1
	v |= activeLow(c.Pad2.Pressed(Button1)) << 2
	v |= activeLow(c.Pad2.Pressed(Button2)) << 3
	v |= 1 << 4 // reset button, not modelled: always released
	v |= 1 << 5
	v |= c.th1() << 6
	v |= c.th2() << 7
	return v
}
