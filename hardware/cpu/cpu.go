// Package cpu implements the Z80 instruction set as used by the Sega Master
// System: the documented opcode set plus the undocumented IXH/IXL/IYH/IYL
// register halves, the DD-CB/FD-CB "double write" forms, and the IFF1/IFF2/
// EI-delay interrupt model.
package cpu

import (
	"github.com/mk3emu/smscore/hardware/cpu/execution"
	"github.com/mk3emu/smscore/hardware/cpu/registers"
)

// Bus is everything the CPU needs from the rest of the machine: the 16-bit
// memory space and the 8-bit I/O port space.
type Bus interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, v uint8)
	ReadIO8(port uint8) uint8
	WriteIO8(port uint8, v uint8)
}

// CPU is a Z80 core driven one instruction at a time by Step. It holds no
// goroutines or timers; everything advances exactly as far as the caller
// asks it to.
type CPU struct {
	R   registers.File
	bus Bus

	irqLevel   bool
	nmiPending bool
	eiDelay    bool

	trace execution.Trace
	gate  execution.IRQGate
}

// New returns a CPU wired to bus, reset to its cold-start state.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.Reset()
	return c
}

// Reset restores cold-start register values and clears pending interrupts.
func (c *CPU) Reset() {
	c.R.Reset()
	c.irqLevel = false
	c.nmiPending = false
	c.eiDelay = false
}

// RequestIRQ asserts the maskable interrupt line for the next Step call.
// The line is level-sensitive: the caller (typically the scheduler, mirroring
// the VDP's interrupt output) must call this again on every step for which
// the line is still asserted, and simply stop calling it once the source
// has cleared.
func (c *CPU) RequestIRQ() { c.irqLevel = true }

// RequestNMI latches a non-maskable interrupt, accepted unconditionally on
// the next Step regardless of IFF1.
func (c *CPU) RequestNMI() { c.nmiPending = true }

// SetTrace installs an optional per-instruction trace hook.
func (c *CPU) SetTrace(fn execution.Trace) { c.trace = fn }

// SetIRQGate installs an optional hook invoked when a pending IRQ is
// presented but not accepted this step.
func (c *CPU) SetIRQGate(fn execution.IRQGate) { c.gate = fn }

func (c *CPU) gateCallback(reason execution.GateReason) {
	if c.gate != nil {
		c.gate(reason)
	}
}

// State is a value-copy snapshot of every piece of CPU state, suitable for
// save-state style restore: SetState(GetState()) is a no-op.
type State struct {
	R          registers.File
	IRQLevel   bool
	NMIPending bool
	EIDelay    bool
}

// GetState returns a snapshot of the CPU's registers and interrupt latches.
func (c *CPU) GetState() State {
	return State{R: c.R, IRQLevel: c.irqLevel, NMIPending: c.nmiPending, EIDelay: c.eiDelay}
}

// SetState restores a snapshot previously returned by GetState.
func (c *CPU) SetState(s State) {
	c.R = s.R
	c.irqLevel = s.IRQLevel
	c.nmiPending = s.NMIPending
	c.eiDelay = s.EIDelay
}

// Step executes exactly one instruction, or one interrupt acceptance, and
// returns a description of what happened along with the number of T-states
// consumed.
func (c *CPU) Step() execution.Result {
	if c.nmiPending {
		c.nmiPending = false
		return c.acceptNMI()
	}

	pendingIRQ := c.irqLevel
	c.irqLevel = false
	eiMask := c.eiDelay

	accepted := false
	if pendingIRQ {
		switch {
		case !c.R.IFF1:
			c.gateCallback(execution.GateIFF1)
		case eiMask:
			c.gateCallback(execution.GateEIDelay)
		default:
			accepted = true
		}
	}

	c.eiDelay = false

	if accepted {
		res := c.acceptIRQ()
		if c.trace != nil {
			c.trace(res)
		}
		return res
	}

	if c.R.Halt {
		c.R.IncR()
		res := execution.Result{PC: c.R.PC, Opcode: 0x76, Cycles: 4}
		if c.trace != nil {
			c.trace(res)
		}
		return res
	}

	pcBefore := c.R.PC
	opcode := c.fetch()
	cycles := c.execute(opcode)
	if opcode == 0xFB {
		c.eiDelay = true
	}

	res := execution.Result{PC: pcBefore, Opcode: opcode, Cycles: cycles}
	if c.trace != nil {
		c.trace(res)
	}
	return res
}

func (c *CPU) acceptIRQ() execution.Result {
	pcForPush := c.R.PC
	c.R.Halt = false
	c.R.IFF1 = false
	c.push(pcForPush)

	var cycles int
	switch c.R.IM {
	case 2:
		vector := uint16(c.R.I)<<8 | 0x00FF
		lo := c.bus.Read8(vector)
		hi := c.bus.Read8(vector + 1)
		c.R.PC = uint16(hi)<<8 | uint16(lo)
		cycles = 19
	default: // IM 0 and IM 1 both respond as if RST 38h had been injected.
		c.R.PC = 0x0038
		cycles = 13
	}
	return execution.Result{PC: pcForPush, Cycles: cycles, IRQAccepted: true}
}

func (c *CPU) acceptNMI() execution.Result {
	pcForPush := c.R.PC
	c.R.Halt = false
	c.R.IFF1 = false
	c.push(pcForPush)
	c.R.PC = 0x0066
	res := execution.Result{PC: pcForPush, Cycles: 11, NMIAccepted: true}
	if c.trace != nil {
		c.trace(res)
	}
	return res
}

// fetch reads the opcode byte at PC, an M1 cycle: PC and R both advance.
func (c *CPU) fetch() uint8 {
	op := c.bus.Read8(c.R.PC)
	c.R.PC++
	c.R.IncR()
	return op
}

// next8/next16 read operand bytes (immediates, displacements, addresses):
// PC advances but R does not, since these are not M1 cycles.
func (c *CPU) next8() uint8 {
	v := c.bus.Read8(c.R.PC)
	c.R.PC++
	return v
}

func (c *CPU) next16() uint16 {
	lo := c.next8()
	hi := c.next8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push(v uint16) {
	c.R.SP--
	c.bus.Write8(c.R.SP, uint8(v>>8))
	c.R.SP--
	c.bus.Write8(c.R.SP, uint8(v))
}

func (c *CPU) pop() uint16 {
	lo := c.bus.Read8(c.R.SP)
	c.R.SP++
	hi := c.bus.Read8(c.R.SP)
	c.R.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// execute dispatches a fetched opcode byte, chaining through any DD/FD
// prefixes (each costing 4T and selecting IX or IY as the active index
// register) before reaching the CB/ED/base opcode that follows.
func (c *CPU) execute(first uint8) int {
	cycles := 0
	opcode := first
	var idx *registers.Pair

	for opcode == 0xDD || opcode == 0xFD {
		if opcode == 0xDD {
			idx = &c.R.IX
		} else {
			idx = &c.R.IY
		}
		cycles += 4
		opcode = c.fetch()
	}

	basePC := c.R.PC - 1

	switch opcode {
	case 0xCB:
		if idx != nil {
			d := int8(c.next8())
			op4 := c.next8()
			return cycles + c.executeIndexedCB(idx, d, op4)
		}
		op2 := c.fetch()
		return cycles + c.executeCB(op2)
	case 0xED:
		op2 := c.fetch()
		c.executeED(op2)
		return cycles + edRepeatCycles(op2, basePC, c.R.PC)
	default:
		base := baseCycles[opcode]
		if idx != nil {
			base = ddCycles[opcode]
		}
		c.executeOpcode(opcode, idx)
		base = adjustConditional(opcode, basePC, c.R.PC, base)
		return cycles + base
	}
}

func boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func parity(v uint8) bool {
	p := true
	for i := 0; i < 8; i++ {
		if v&1 == 1 {
			p = !p
		}
		v >>= 1
	}
	return p
}
