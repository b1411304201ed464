// Package scheduler drives the CPU, VDP and PSG in lockstep, one Z80
// instruction at a time: it steps the CPU, ticks the VDP and PSG by the
// cycles that instruction consumed, and latches a pending IRQ into the CPU
// whenever the VDP's interrupt line is asserted (§4.5).
package scheduler

import (
	"github.com/mk3emu/smscore/hardware/cpu/execution"
)

// CPU is everything the scheduler needs to drive the Z80.
type CPU interface {
	Step() execution.Result
	RequestIRQ()
}

// VDP is everything the scheduler needs to drive video timing.
type VDP interface {
	TickCycles(n int)
	HasIRQ() bool
	FrameCount() int
}

// PSG is everything the scheduler needs to drive audio timing.
type PSG interface {
	TickCycles(n int)
}

// Scheduler steps CPU, VDP and PSG together. It holds no timers of its own;
// every advance is driven by the caller's RunCycles/RunFrame budget.
type Scheduler struct {
	cpu CPU
	vdp VDP
	psg PSG
}

// New returns a Scheduler wired to cpu, vdp and psg.
func New(cpu CPU, vdp VDP, psg PSG) *Scheduler {
	return &Scheduler{cpu: cpu, vdp: vdp, psg: psg}
}

// step executes exactly one CPU step (instruction or interrupt
// acceptance), ticks VDP/PSG by its cycle cost, and re-latches IRQ if the
// VDP's interrupt line is still (or newly) asserted. It returns the cycles
// consumed.
func (s *Scheduler) step() int {
	res := s.cpu.Step()
	s.vdp.TickCycles(res.Cycles)
	s.psg.TickCycles(res.Cycles)
	if s.vdp.HasIRQ() {
		s.cpu.RequestIRQ()
	}
	return res.Cycles
}

// RunCycles steps the machine until at least budget T-states have been
// consumed (the final instruction may overshoot the budget slightly, since
// instructions execute atomically) and returns the number of cycles
// actually consumed.
func (s *Scheduler) RunCycles(budget int) int {
	total := 0
	for total < budget {
		total += s.step()
	}
	return total
}

// RunFrame steps the machine until the VDP's frame counter advances by
// one, i.e. until a full frame (active display plus VBlank) has been
// ticked.
func (s *Scheduler) RunFrame() {
	start := s.vdp.FrameCount()
	for s.vdp.FrameCount() == start {
		s.step()
	}
}
