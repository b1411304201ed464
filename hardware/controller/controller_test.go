package controller_test

import (
	"testing"

	"github.com/mk3emu/smscore/hardware/controller"
	"github.com/mk3emu/smscore/test"
)

func TestReadPortAReflectsPad1AndPad2UpDown(t *testing.T) {
	var c controller.Controllers
	test.ExpectEquality(t, c.ReadPortA(), uint8(0xFF))

	c.Pad1.SetPressed(controller.Up, true)
	test.ExpectEquality(t, c.ReadPortA()&0x01, uint8(0))

	c.Pad2.SetPressed(controller.Down, true)
	test.ExpectEquality(t, c.ReadPortA()&0x80, uint8(0))
}

func TestReadPortBReflectsPad2ButtonsAndDefaultsReleased(t *testing.T) {
	var c controller.Controllers
	c.Pad2.SetPressed(controller.Button1, true)
	test.ExpectEquality(t, c.ReadPortB()&0x04, uint8(0))
	// reset line and both TH lines default high (released/input) until
	// configured otherwise.
	test.ExpectEquality(t, c.ReadPortB()&0xF0, uint8(0xF0))
}

// TestIOControlDrivesTHLatchOutput checks that configuring a TH line as
// output and setting its latch bit is reflected on the next port B read.
func TestIOControlDrivesTHLatchOutput(t *testing.T) {
	var c controller.Controllers
	c.SetIOControl(0x02) // TH1 output, latched low
	test.ExpectEquality(t, c.ReadPortB()&0x40, uint8(0))

	c.SetIOControl(0x02 | 0x20) // TH1 output, latched high
	test.ExpectEquality(t, c.ReadPortB()&0x40, uint8(0x40))
}
