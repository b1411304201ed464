package cpu_test

import (
	"testing"

	"github.com/mk3emu/smscore/hardware/cpu"
	"github.com/mk3emu/smscore/hardware/cpu/execution"
	"github.com/mk3emu/smscore/test"
)

// ramBus is a flat 64KB memory/IO space, enough to drive the CPU in
// isolation without a full system bus.
type ramBus struct {
	mem [65536]uint8
	io  [256]uint8
}

func (b *ramBus) Read8(addr uint16) uint8     { return b.mem[addr] }
func (b *ramBus) Write8(addr uint16, v uint8) { b.mem[addr] = v }
func (b *ramBus) ReadIO8(port uint8) uint8     { return b.io[port] }
func (b *ramBus) WriteIO8(port uint8, v uint8) { b.io[port] = v }

func (b *ramBus) load(addr uint16, code ...uint8) {
	for i, v := range code {
		b.mem[int(addr)+i] = v
	}
}

func newCPU() (*cpu.CPU, *ramBus) {
	bus := &ramBus{}
	return cpu.New(bus), bus
}

// TestEIDelaysInterruptAcceptance checks that an IRQ presented immediately
// after EI is gated for exactly one step (the EI-delay mask) and accepted
// on the step after that.
func TestEIDelaysInterruptAcceptance(t *testing.T) {
	c, bus := newCPU()
	c.R.IM = 1
	bus.load(0, 0xFB, 0x00, 0x00) // EI, NOP, NOP

	var gates []string
	c.SetIRQGate(func(reason execution.GateReason) { gates = append(gates, string(reason)) })

	c.Step() // EI: sets IFF1/IFF2, arms the one-step mask
	c.RequestIRQ()
	res := c.Step() // NOP, but IRQ must be gated by the EI mask
	test.ExpectEquality(t, res.IRQAccepted, false)

	c.RequestIRQ()
	res = c.Step() // now eligible
	test.ExpectEquality(t, res.IRQAccepted, true)
	test.ExpectEquality(t, c.R.PC, uint16(0x0038))
}

// TestHaltIRQRace checks that a pending IRQ preempts HALT before it
// executes, pushing the address of the HALT instruction itself.
func TestHaltIRQRace(t *testing.T) {
	c, bus := newCPU()
	c.R.IM = 1
	c.R.IFF1 = true
	c.R.IFF2 = true
	c.R.PC = 0x1000
	bus.load(0x1000, 0x76) // HALT

	c.RequestIRQ()
	res := c.Step()

	test.ExpectEquality(t, res.IRQAccepted, true)
	test.ExpectEquality(t, c.R.Halt, false)
	test.ExpectEquality(t, c.R.PC, uint16(0x0038))
	lo := bus.Read8(c.R.SP)
	hi := bus.Read8(c.R.SP + 1)
	test.ExpectEquality(t, uint16(hi)<<8|uint16(lo), uint16(0x1000))
}

// TestHaltedWakeOnIRQ checks the already-halted case: the pushed PC points
// at the instruction after HALT, since HALT itself already advanced PC
// once before the CPU entered the halted state.
func TestHaltedWakeOnIRQ(t *testing.T) {
	c, bus := newCPU()
	c.R.IM = 1
	c.R.IFF1 = true
	c.R.IFF2 = true
	c.R.PC = 0x2000
	bus.load(0x2000, 0x76, 0x00) // HALT, NOP

	c.Step() // executes HALT, PC now 0x2001, Halt == true
	test.ExpectEquality(t, c.R.Halt, true)
	test.ExpectEquality(t, c.R.PC, uint16(0x2001))

	c.Step() // still halted, no IRQ yet: burns a cycle in place
	test.ExpectEquality(t, c.R.PC, uint16(0x2001))

	c.RequestIRQ()
	res := c.Step()
	test.ExpectEquality(t, res.IRQAccepted, true)
	test.ExpectEquality(t, c.R.Halt, false)
	lo := bus.Read8(c.R.SP)
	hi := bus.Read8(c.R.SP + 1)
	test.ExpectEquality(t, uint16(hi)<<8|uint16(lo), uint16(0x2001))
}

// TestRETIRestoresIFF1FromIFF2 checks that RETI pops PC and copies IFF2
// back into IFF1. RETN is decoded by the same ED case and is not stepped
// here.
func TestRETIRestoresIFF1FromIFF2(t *testing.T) {
	c, bus := newCPU()
	c.R.SP = 0xFFF0
	bus.Write8(0xFFF0, 0x34)
	bus.Write8(0xFFF1, 0x12)
	c.R.IFF1 = false
	c.R.IFF2 = true
	bus.load(0, 0xED, 0x4D) // RETI

	c.Step()
	test.ExpectEquality(t, c.R.PC, uint16(0x1234))
	test.ExpectEquality(t, c.R.IFF1, true)
}

// TestNMIPreservesIFF2 checks that NMI acceptance clears IFF1 but leaves
// IFF2 untouched, and is accepted even with interrupts disabled.
func TestNMIPreservesIFF2(t *testing.T) {
	c, bus := newCPU()
	c.R.PC = 0x4000
	c.R.IFF1 = false
	c.R.IFF2 = true
	bus.load(0x4000, 0x00)

	c.RequestNMI()
	res := c.Step()

	test.ExpectEquality(t, res.NMIAccepted, true)
	test.ExpectEquality(t, c.R.PC, uint16(0x0066))
	test.ExpectEquality(t, c.R.IFF1, false)
	test.ExpectEquality(t, c.R.IFF2, true)
}

// TestRRefreshIncrementsPerM1 checks that R increments once per M1 cycle,
// including each prefix byte, for a DD-CB sequence (BIT 0,(IX+0)): two M1
// cycles (DD, CB), so R should advance by exactly 2.
func TestRRefreshIncrementsPerM1(t *testing.T) {
	c, bus := newCPU()
	bus.load(0, 0xDD, 0xCB, 0x00, 0x46) // DD CB 00 46 = BIT 0,(IX+0)
	before := c.R.R
	c.Step()
	test.ExpectEquality(t, c.R.R, (before+2)&0x7F|before&0x80)
}

// TestLDIRCollapsesToTwoIterations exercises a 2-byte block move and checks
// the total cycle count across the repeating and final iterations.
func TestLDIRCollapsesToTwoIterations(t *testing.T) {
	c, bus := newCPU()
	bus.load(0x8000, 0xAA, 0xBB)
	c.R.HL.Set(0x8000)
	c.R.DE.Set(0x9000)
	c.R.BC.Set(2)
	bus.load(0, 0xED, 0xB0) // LDIR

	total := 0
	for c.R.BC.Get() != 0 || c.R.PC == 0 {
		res := c.Step()
		total += res.Cycles
		if c.R.BC.Get() == 0 {
			break
		}
	}

	test.ExpectEquality(t, total, 37)
	test.ExpectEquality(t, bus.Read8(0x9000), uint8(0xAA))
	test.ExpectEquality(t, bus.Read8(0x9001), uint8(0xBB))
}

// TestStateRoundTrip checks that SetState(GetState()) is a no-op.
func TestStateRoundTrip(t *testing.T) {
	c, bus := newCPU()
	bus.load(0, 0x3E, 0x42) // LD A,42h
	c.Step()

	snap := c.GetState()
	c.R.SetA(0)
	c.SetState(snap)

	test.ExpectEquality(t, c.R.A(), uint8(0x42))
}
