// Package execution describes the outcome of one Z80 step, separated from
// the cpu package so that debug tooling can depend on the result shape
// without pulling in the interpreter itself.
package execution

// Result is returned by one call to Step(). It carries everything a trace
// consumer needs to describe what happened without re-deriving it from the
// register file.
type Result struct {
	// PC is the program counter of the opcode that was fetched (or, when
	// IRQAccepted/NMIAccepted and the CPU preempted a pending HALT, the
	// address of that HALT instruction).
	PC uint16

	// Opcode is the first byte fetched for this step. When a prefix byte
	// (CB/DD/ED/FD) was consumed this is that prefix, not the final opcode.
	Opcode uint8

	// Cycles is the number of T-states this step consumed, including any
	// interrupt-acceptance overhead.
	Cycles int

	// IRQAccepted and NMIAccepted report whether this step was (wholly or
	// partly) an interrupt acceptance rather than ordinary instruction
	// execution.
	IRQAccepted bool
	NMIAccepted bool
}

// Trace is an optional per-instruction hook. Disassembly is provided by the
// caller if it wants one; the core does not format mnemonics itself.
type Trace func(r Result)

// GateReason names why a pending IRQ was not accepted this step.
type GateReason string

const (
	// GateIFF1 means interrupts are currently masked (IFF1 == false).
	GateIFF1 GateReason = "iff1=0"
	// GateEIDelay means the previous instruction was EI; the one-instruction
	// delay is still in effect.
	GateEIDelay GateReason = "ei-mask1"
	// GateHaltRace means the next opcode is HALT but the IRQ was not
	// eligible for the preemption that would otherwise skip over it.
	GateHaltRace GateReason = "halt-gate"
)

// IRQGate is an optional hook invoked when a pending IRQ is presented but
// not accepted this step.
type IRQGate func(reason GateReason)
