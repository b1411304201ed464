// Package vdp implements the Sega Master System's Mode-4 Video Display
// Processor: VRAM/CRAM storage, the two-byte control-port address/register
// protocol, scanline and VBlank/Line-interrupt timing, and the Mode-4
// tile-plus-sprite frame renderer.
package vdp

import "github.com/mk3emu/smscore/config"

const (
	vramSize = 0x4000
	cramSize = 0x20

	screenWidth  = 256
	screenHeight = 192

	statusVBlank    = 0x80
	statusOverflow  = 0x40
	statusCollision = 0x20
)

// VDP owns video RAM, color RAM, the sixteen Mode-4 registers, and the
// scanline/cycle counters that drive VBlank and Line interrupts. It never
// reaches into the CPU; the scheduler polls HasIRQ after every tick.
type VDP struct {
	cfg *config.Config

	vram [vramSize]byte
	cram [cramSize]byte
	reg  [16]byte

	status uint8

	// Control-port two-byte sequence state.
	latched   bool
	addrLatch uint8
	addr      uint16
	code      uint8
	readBuf   uint8

	// Per-line/per-frame scroll latches (§4.2: "the horizontal scroll R8
	// is re-captured at the start of each visible scanline").
	lineHScroll [screenHeight]uint8
	vScroll     uint8

	cyclePos int
	scanline int
	frame    int

	lineCounter int
	vblankIRQ   bool
	lineIRQ     bool
}

// New returns a VDP configured with cfg's timing knobs, reset to its
// power-on state.
func New(cfg *config.Config) *VDP {
	v := &VDP{cfg: cfg}
	v.Reset()
	return v
}

// Reset clears VRAM/CRAM, registers, and every timing counter.
func (v *VDP) Reset() {
	v.vram = [vramSize]byte{}
	v.cram = [cramSize]byte{}
	v.reg = [16]byte{}
	v.status = 0
	v.latched = false
	v.addrLatch = 0
	v.addr = 0
	v.code = 0
	v.readBuf = 0
	v.lineHScroll = [screenHeight]uint8{}
	v.vScroll = 0
	v.cyclePos = 0
	v.scanline = 0
	v.frame = 0
	v.lineCounter = 0
	v.vblankIRQ = false
	v.lineIRQ = false
}

func (v *VDP) autoIncrement() uint16 {
	a := v.reg[15]
	if a == 0 {
		return 1
	}
	return uint16(a)
}

// WriteControl implements the control-port's two-byte address/register
// protocol (§4.2).
func (v *VDP) WriteControl(val uint8) {
	if !v.latched {
		v.addrLatch = val
		v.latched = true
		return
	}
	v.latched = false

	full := uint16(v.addrLatch) | uint16(val&0x3F)<<8
	v.code = val >> 6

	switch v.code {
	case 0: // VRAM read setup: pre-fetch and auto-increment.
		v.addr = full
		v.readBuf = v.vram[v.addr&(vramSize-1)]
		v.addr = (v.addr + v.autoIncrement()) & (vramSize - 1)
	case 1: // VRAM write setup.
		v.addr = full
	case 2: // Register write: does not touch the VRAM address.
		reg := val & 0x0F
		v.reg[reg] = v.addrLatch
	case 3: // CRAM write setup.
		v.addr = full
	}
}

// ReadControl reads the status port (0xBF): returns the status byte, then
// clears VBlank/overflow/collision, deasserts both IRQ sources, and resets
// the control-port latch.
func (v *VDP) ReadControl() uint8 {
	s := v.status
	v.status &^= statusVBlank | statusOverflow | statusCollision
	v.vblankIRQ = false
	v.lineIRQ = false
	v.latched = false
	return s
}

// WriteData writes one byte to VRAM or CRAM, per the code latched by the
// last control-port setup, and auto-increments the address.
func (v *VDP) WriteData(val uint8) {
	v.latched = false
	v.readBuf = val
	if v.code == 3 {
		v.cram[v.addr&(cramSize-1)] = val & 0x3F
	} else {
		v.vram[v.addr&(vramSize-1)] = val
	}
	v.addr = (v.addr + v.autoIncrement()) & (vramSize - 1)
}

// ReadData returns the buffered byte, refills the buffer from the new
// address, and auto-increments.
func (v *VDP) ReadData() uint8 {
	v.latched = false
	ret := v.readBuf
	v.readBuf = v.vram[v.addr&(vramSize-1)]
	v.addr = (v.addr + v.autoIncrement()) & (vramSize - 1)
	return ret
}

// ReadVCounter returns the V-counter for the current scanline (port 0x7E).
func (v *VDP) ReadVCounter() uint8 {
	return vCounterForLine(v.scanline)
}

// ReadHCounter returns the H-counter for the current cycle position within
// the scanline (port 0x7F).
func (v *VDP) ReadHCounter() uint8 {
	return hCounterForCycle(v.cyclePos)
}

// HasIRQ is the logical OR of a pending, enabled VBlank interrupt and a
// pending, enabled Line interrupt (§4.2 "IRQ level semantics").
func (v *VDP) HasIRQ() bool {
	vblankEnabled := v.reg[1]&0x20 != 0
	lineEnabled := v.reg[0]&0x10 != 0
	return (v.vblankIRQ && vblankEnabled) || (v.lineIRQ && lineEnabled)
}

// TickCycles advances the scanline/cycle counters by n CPU T-states.
// Negative or zero n is a no-op.
func (v *VDP) TickCycles(n int) {
	for n > 0 {
		remaining := v.cfg.TStatesPerScanline - v.cyclePos
		step := n
		if step > remaining {
			step = remaining
		}
		v.cyclePos += step
		n -= step
		if v.cyclePos >= v.cfg.TStatesPerScanline {
			v.cyclePos -= v.cfg.TStatesPerScanline
			v.advanceScanline()
		}
	}
}

func (v *VDP) advanceScanline() {
	finishing := v.scanline
	if finishing < screenHeight {
		v.lineCounter--
		if v.lineCounter < 0 {
			v.lineCounter = int(v.reg[10])
			v.lineIRQ = true
		}
	} else {
		v.lineCounter = int(v.reg[10])
	}

	v.scanline++
	if v.scanline >= v.cfg.ScanlinesPerFrame {
		v.scanline = 0
		v.frame++
	}

	if v.scanline == screenHeight {
		v.status |= statusVBlank
		v.vblankIRQ = true
	}
	if v.scanline == 0 {
		v.vScroll = v.reg[9]
	}
	if v.scanline < screenHeight {
		v.lineHScroll[v.scanline] = v.reg[8]
	}
}

// FrameCount returns the number of frames fully ticked so far, for a host
// (or the scheduler's RunFrame) to detect frame boundaries.
func (v *VDP) FrameCount() int { return v.frame }

// VRAM exposes the raw 16KiB video memory for testing/introspection.
func (v *VDP) VRAM() []byte { return v.vram[:] }

// CRAM exposes the raw 32-byte color memory for testing/introspection.
func (v *VDP) CRAM() []byte { return v.cram[:] }

// Register returns the raw value of VDP register n (0-15).
func (v *VDP) Register(n int) uint8 { return v.reg[n&0x0F] }

// State is a value-copy snapshot of every mutable VDP field.
type State struct {
	VRAM        [vramSize]byte
	CRAM        [cramSize]byte
	Reg         [16]byte
	Status      uint8
	Latched     bool
	AddrLatch   uint8
	Addr        uint16
	Code        uint8
	ReadBuf     uint8
	LineHScroll [screenHeight]uint8
	VScroll     uint8
	CyclePos    int
	Scanline    int
	Frame       int
	LineCounter int
	VBlankIRQ   bool
	LineIRQ     bool
}

// GetState returns a snapshot suitable for SetState round-tripping.
func (v *VDP) GetState() State {
	return State{
		VRAM: v.vram, CRAM: v.cram, Reg: v.reg, Status: v.status,
		Latched: v.latched, AddrLatch: v.addrLatch, Addr: v.addr, Code: v.code,
		ReadBuf: v.readBuf, LineHScroll: v.lineHScroll, VScroll: v.vScroll,
		CyclePos: v.cyclePos, Scanline: v.scanline, Frame: v.frame,
		LineCounter: v.lineCounter, VBlankIRQ: v.vblankIRQ, LineIRQ: v.lineIRQ,
	}
}

// SetState restores a snapshot previously returned by GetState.
func (v *VDP) SetState(s State) {
	v.vram, v.cram, v.reg, v.status = s.VRAM, s.CRAM, s.Reg, s.Status
	v.latched, v.addrLatch, v.addr, v.code = s.Latched, s.AddrLatch, s.Addr, s.Code
	v.readBuf, v.lineHScroll, v.vScroll = s.ReadBuf, s.LineHScroll, s.VScroll
	v.cyclePos, v.scanline, v.frame = s.CyclePos, s.Scanline, s.Frame
	v.lineCounter, v.vblankIRQ, v.lineIRQ = s.LineCounter, s.VBlankIRQ, s.LineIRQ
}
