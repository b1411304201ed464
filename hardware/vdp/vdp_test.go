package vdp_test

import (
	"testing"

	"github.com/mk3emu/smscore/config"
	"github.com/mk3emu/smscore/hardware/vdp"
	"github.com/mk3emu/smscore/test"
)

func newTestVDP() *vdp.VDP {
	return vdp.New(config.NewDefault())
}

func writeReg(v *vdp.VDP, reg, val uint8) {
	v.WriteControl(val)
	v.WriteControl(0x80 | reg)
}

func setVRAMAddr(v *vdp.VDP, addr uint16, writeCode uint8) {
	v.WriteControl(uint8(addr))
	v.WriteControl(uint8(addr>>8)&0x3F | writeCode<<6)
}

func TestControlPortWriteSetup(t *testing.T) {
	v := newTestVDP()
	setVRAMAddr(v, 0x1234, 1)
	v.WriteData(0x42)
	test.ExpectEquality(t, v.VRAM()[0x1234], uint8(0x42))
}

func TestControlPortAutoIncrementWraps(t *testing.T) {
	v := newTestVDP()
	setVRAMAddr(v, 0x3FFF, 1)
	v.WriteData(0x11)
	v.WriteData(0x22)
	test.ExpectEquality(t, v.VRAM()[0], uint8(0x22))
}

func TestRegisterWriteDoesNotTouchVRAMAddress(t *testing.T) {
	v := newTestVDP()
	setVRAMAddr(v, 0x0100, 1)
	writeReg(v, 0x01, 0x40) // enable display via R1
	v.WriteData(0x99)
	test.ExpectEquality(t, v.VRAM()[0x0100], uint8(0x99))
	test.ExpectEquality(t, v.Register(1), uint8(0x40))
}

func TestCRAMWriteMasksToSixBits(t *testing.T) {
	v := newTestVDP()
	setVRAMAddr(v, 0, 3)
	v.WriteData(0xFF)
	test.ExpectEquality(t, v.CRAM()[0], uint8(0x3F))
}

// TestStatusReadClearsFlagsAndIRQ checks that reading the status port
// clears VBlank/overflow/collision and deasserts both IRQ sources, per
// spec.md §4.2.
func TestStatusReadClearsFlagsAndIRQ(t *testing.T) {
	v := newTestVDP()
	writeReg(v, 1, 0x20) // enable VBlank IRQ

	cfg := config.NewDefault()
	v.TickCycles(cfg.TStatesPerScanline * 193)
	test.ExpectEquality(t, v.HasIRQ(), true)

	v.ReadControl()
	test.ExpectEquality(t, v.HasIRQ(), false)
}

// TestVBlankIRQAssertedAtLine192 exercises spec.md §8 scenario 2: running
// the VDP for exactly one frame's worth of active-display scanlines
// crosses into VBlank and asserts the enabled interrupt.
func TestVBlankIRQAssertedAtLine192(t *testing.T) {
	v := newTestVDP()
	writeReg(v, 1, 0x20)

	cfg := config.NewDefault()
	test.ExpectEquality(t, v.HasIRQ(), false)
	v.TickCycles(cfg.TStatesPerScanline * 192)
	test.ExpectEquality(t, v.HasIRQ(), true)
}

func TestFrameCountAdvancesAfterFullFrame(t *testing.T) {
	v := newTestVDP()
	cfg := config.NewDefault()
	test.ExpectEquality(t, v.FrameCount(), 0)
	v.TickCycles(cfg.TStatesPerScanline * cfg.ScanlinesPerFrame)
	test.ExpectEquality(t, v.FrameCount(), 1)
}

func TestRenderFrameBackdropWhenDisplayDisabled(t *testing.T) {
	v := newTestVDP()
	writeReg(v, 7, 0x01) // backdrop index 1
	setVRAMAddr(v, 1, 3)
	v.WriteData(0x3F) // CRAM[1] = white

	out := v.RenderFrame()
	test.ExpectEquality(t, out[0], uint8(255))
	test.ExpectEquality(t, out[1], uint8(255))
	test.ExpectEquality(t, out[2], uint8(255))
}

// TestSpriteOverflowLimitsEightPerLine exercises spec.md §8 scenario 6: nine
// sprites sharing a scanline draw only the first eight and set the overflow
// flag, the ninth contributing nothing to the rendered row.
func TestSpriteOverflowLimitsEightPerLine(t *testing.T) {
	v := newTestVDP()
	writeReg(v, 1, 0x40) // display enabled
	writeReg(v, 5, 0x70) // SAT base = (0x70&0x7E)<<7 = 0x3800, clear of the name table at 0
	writeReg(v, 6, 0x04) // sprite pattern base = 0x2000

	// CRAM[17]: 16 + color-index 1, the sprite-palette half of CRAM.
	setVRAMAddr(v, 17, 3)
	v.WriteData(0x03) // red

	// Nine sprite Y bytes (Y=9 means top=10) then a terminator.
	const satBase = 0x3800
	setVRAMAddr(v, satBase, 1)
	for i := 0; i < 9; i++ {
		v.WriteData(9)
	}
	v.WriteData(0xD0)

	// Nine (X,pattern) pairs right after the 64 Y bytes, X = i*8, pattern 0.
	setVRAMAddr(v, satBase+64, 1)
	for i := 0; i < 9; i++ {
		v.WriteData(uint8(i * 8))
		v.WriteData(0)
	}

	// Pattern 0 is all-ones on bitplane 0 (color index 1) for every row.
	setVRAMAddr(v, 0x2000, 1)
	for row := 0; row < 8; row++ {
		v.WriteData(0xFF)
		v.WriteData(0x00)
		v.WriteData(0x00)
		v.WriteData(0x00)
	}

	out := v.RenderFrame()
	row := 10 * 256 * 3
	for x := 0; x < 56; x += 8 {
		i := row + x*3
		test.ExpectEquality(t, out[i], uint8(255))
		test.ExpectEquality(t, out[i+1], uint8(0))
		test.ExpectEquality(t, out[i+2], uint8(0))
	}

	// x=64 is the 9th sprite, dropped by the overflow limit: backdrop shows.
	i := row + 64*3
	test.ExpectEquality(t, out[i], uint8(0))
	test.ExpectEquality(t, out[i+1], uint8(0))
	test.ExpectEquality(t, out[i+2], uint8(0))

	test.ExpectEquality(t, v.ReadControl()&0x40, uint8(0x40))
}

func TestGetSetStateRoundTrips(t *testing.T) {
	v := newTestVDP()
	writeReg(v, 7, 0x0A)
	setVRAMAddr(v, 0x10, 1)
	v.WriteData(0x55)

	s := v.GetState()

	v2 := newTestVDP()
	v2.SetState(s)
	test.ExpectEquality(t, v2.Register(7), uint8(0x0A))
	test.ExpectEquality(t, v2.VRAM()[0x10], uint8(0x55))
}
