// Package smscore wires the Z80 CPU, Mode-4 VDP, SN76489 PSG, Sega-mapper
// bus and controllers into a single Sega Master System core, driven one
// instruction at a time by the scheduler.
package smscore

import (
	"github.com/mk3emu/smscore/config"
	"github.com/mk3emu/smscore/hardware/controller"
	"github.com/mk3emu/smscore/hardware/cpu"
	"github.com/mk3emu/smscore/hardware/cpu/execution"
	"github.com/mk3emu/smscore/hardware/memory"
	"github.com/mk3emu/smscore/hardware/memory/cartridge"
	"github.com/mk3emu/smscore/hardware/psg"
	"github.com/mk3emu/smscore/hardware/scheduler"
	"github.com/mk3emu/smscore/hardware/vdp"
)

// Machine is a complete Sega Master System: cartridge, optional BIOS, bus,
// CPU, VDP, PSG and two controller ports, stepped by an internal
// scheduler.
type Machine struct {
	cfg *config.Config

	VDP  *vdp.VDP
	PSG  *psg.PSG
	Bus  *memory.Bus
	CPU  *cpu.CPU
	Pads *controller.Controllers

	sched *scheduler.Scheduler
}

// New returns a Machine configured with cfg (config.NewDefault() if nil),
// with no cartridge attached. LoadCartridge must be called before Run* will
// execute anything meaningful.
func New(cfg *config.Config) *Machine {
	if cfg == nil {
		cfg = config.NewDefault()
	}

	m := &Machine{cfg: cfg}
	m.VDP = vdp.New(cfg)
	m.PSG = psg.New(cfg)
	m.Pads = &controller.Controllers{}
	m.Bus = memory.New(cfg, m.VDP, m.PSG, m.Pads)
	m.CPU = cpu.New(m.Bus)
	m.sched = scheduler.New(m.CPU, m.VDP, m.PSG)
	return m
}

// LoadCartridge validates and attaches a cartridge image.
func (m *Machine) LoadCartridge(image []byte) error {
	cart, err := cartridge.New(image)
	if err != nil {
		return err
	}
	m.Bus.LoadCartridge(cart)
	return nil
}

// LoadBIOS attaches an optional BIOS image, overlaid at low addresses until
// the cartridge disables it through the memory-control port.
func (m *Machine) LoadBIOS(image []byte) error {
	return m.Bus.LoadBIOS(image)
}

// Reset restores the CPU, VDP and PSG to their cold-start state. The
// cartridge and BIOS images themselves are untouched.
func (m *Machine) Reset() {
	m.CPU.Reset()
	m.VDP.Reset()
	m.PSG.Reset()
}

// RunCycles runs the scheduler for at least budget T-states and returns the
// number of cycles actually consumed.
func (m *Machine) RunCycles(budget int) int {
	before := m.VDP.FrameCount()
	n := m.sched.RunCycles(budget)
	for i := 0; i < m.VDP.FrameCount()-before; i++ {
		m.Bus.TickFrame()
	}
	return n
}

// RunFrame runs the scheduler until one full video frame has been ticked.
func (m *Machine) RunFrame() {
	m.sched.RunFrame()
	m.Bus.TickFrame()
}

// RenderFrame renders the VDP's current framebuffer (256x192 RGB triples).
func (m *Machine) RenderFrame() []byte {
	return m.VDP.RenderFrame()
}

// GetSample returns the PSG's current mixed audio sample.
func (m *Machine) GetSample() int16 {
	return m.PSG.GetSample()
}

// SetTrace installs a per-instruction CPU trace hook.
func (m *Machine) SetTrace(fn execution.Trace) {
	m.CPU.SetTrace(fn)
}

// SetIRQGate installs a hook invoked when a pending CPU IRQ is not accepted.
func (m *Machine) SetIRQGate(fn execution.IRQGate) {
	m.CPU.SetIRQGate(fn)
}

// State is a value-copy snapshot of every core component's state, per §3's
// "snapshot/restore... of the core state fields" non-goal carve-out.
type State struct {
	CPU  cpu.State
	VDP  vdp.State
	PSG  psg.State
	Bus  memory.State
	Cart cartridge.State
}

// Snapshot returns a composed snapshot of CPU, VDP, PSG, Bus and cartridge
// mapper state.
func (m *Machine) Snapshot() State {
	return State{
		CPU:  m.CPU.GetState(),
		VDP:  m.VDP.GetState(),
		PSG:  m.PSG.GetState(),
		Bus:  m.Bus.GetState(),
		Cart: m.Bus.CartState(),
	}
}

// Restore restores a snapshot previously returned by Snapshot.
func (m *Machine) Restore(s State) {
	m.CPU.SetState(s.CPU)
	m.VDP.SetState(s.VDP)
	m.PSG.SetState(s.PSG)
	m.Bus.SetState(s.Bus)
	m.Bus.SetCartState(s.Cart)
}
