// Package memory implements the Sega Master System's CPU memory map and
// I/O port decode: BIOS overlay, cartridge slots, 8KiB work RAM mirrored
// across 0xC000-0xFFFF, and the VDP/PSG/controller/memory-control ports.
package memory

import (
	"github.com/mk3emu/smscore/config"
	"github.com/mk3emu/smscore/errors"
	"github.com/mk3emu/smscore/hardware/controller"
	"github.com/mk3emu/smscore/hardware/memory/cartridge"
	"github.com/mk3emu/smscore/logger"
)

const (
	workRAMSize = 0x2000
	biosMaxSize = 0x4000
)

// VDPPorts is the subset of the VDP's behaviour the bus needs to decode
// the four VDP-mapped I/O ports (0x7E-0x7F read, 0xBE-0xBF read/write).
type VDPPorts interface {
	ReadData() uint8
	WriteData(v uint8)
	ReadControl() uint8
	WriteControl(v uint8)
	ReadVCounter() uint8
	ReadHCounter() uint8
}

// PSGPort is the write-only PSG command port, reached by any write in
// 0x40-0x7F (canonically 0x7F); reads in that range return the VDP's
// V-counter (even ports) or H-counter (odd ports) instead.
type PSGPort interface {
	Write(v uint8)
}

// Bus wires the cartridge, BIOS, work RAM, VDP, PSG and controllers into
// the CPU's single address space and I/O space.
type Bus struct {
	cfg  *config.Config
	cart *cartridge.Cartridge
	bios []byte

	biosEnabled      bool
	biosFramesWaited int
	ram              [workRAMSize]byte

	vdp  VDPPorts
	psg  PSGPort
	pads *controller.Controllers

	ioControl uint8

	// lastPSGByte/lastVDPDataByte are observable-only caches of the last byte
	// written to the PSG command port and the VDP data port, for test
	// introspection per spec.md §3; they have no effect on CPU-visible state.
	lastPSGByte     uint8
	lastVDPDataByte uint8
}

// New returns a Bus with no cartridge or BIOS attached; LoadCartridge and
// LoadBIOS must be called before the CPU can fetch meaningfully.
func New(cfg *config.Config, vdp VDPPorts, psg PSGPort, pads *controller.Controllers) *Bus {
	return &Bus{cfg: cfg, vdp: vdp, psg: psg, pads: pads}
}

// LoadBIOS installs a BIOS image, mapped over the cartridge at 0x0000 until
// the cartridge (or software) disables it via the memory control port.
func (b *Bus) LoadBIOS(image []byte) error {
	if len(image) == 0 || len(image) > biosMaxSize {
		return errors.Errorf(errors.InvalidBIOSSize, len(image))
	}
	b.bios = image
	b.biosEnabled = true
	b.biosFramesWaited = 0
	return nil
}

// TickFrame advances the BIOS auto-disable escape hatch (§4.6, optional):
// once the BIOS has stayed mapped in for cfg.BIOSAutoDisableFrames whole
// frames without the cartridge disabling it itself, it is force-disabled so
// a stuck boot sequence doesn't wedge the machine forever. A zero threshold
// disables the heuristic.
func (b *Bus) TickFrame() {
	if !b.biosEnabled || b.cfg.BIOSAutoDisableFrames <= 0 {
		return
	}
	b.biosFramesWaited++
	if b.biosFramesWaited >= b.cfg.BIOSAutoDisableFrames {
		b.biosEnabled = false
		logger.Logf("bus", "BIOS auto-disabled after %d frames with no memory-control write", b.biosFramesWaited)
	}
}

// LoadCartridge attaches cart, replacing any cartridge already inserted.
func (b *Bus) LoadCartridge(cart *cartridge.Cartridge) {
	b.cart = cart
}

// Read8 implements the CPU's view of the 16-bit address space.
func (b *Bus) Read8(addr uint16) uint8 {
	switch {
	case addr < 0xC000:
		if b.biosEnabled && b.bios != nil && addr < uint16(len(b.bios)) {
			return b.bios[addr]
		}
		if b.cart == nil {
			return 0xFF
		}
		return b.cart.Read(addr)
	default:
		return b.ram[addr&(workRAMSize-1)]
	}
}

// Write8 implements the CPU's view of the 16-bit address space. The mapper's
// bank-select registers at 0xFFFC-0xFFFF sit inside the mirrored RAM range,
// so writes there update RAM and are also forwarded to the cartridge.
func (b *Bus) Write8(addr uint16, v uint8) {
	switch {
	case addr < 0xC000:
		if b.cart != nil {
			b.cart.Write(addr, v)
		}
	default:
		b.ram[addr&(workRAMSize-1)] = v
		if addr >= 0xFFFC && b.cart != nil {
			b.cart.Write(addr, v)
		}
	}
}

// ReadIO8 decodes the eight-bit I/O port space. Only the even/odd pairing
// that the real hardware implements is modelled: ports repeat every 2
// addresses above the fixed low set.
func (b *Bus) ReadIO8(port uint8) uint8 {
	switch {
	case port < 0x40:
		return 0xFF // memory-control/IO-control ports read back as open bus
	case port < 0x80:
		if port&1 == 0 {
			return b.vdp.ReadVCounter()
		}
		return b.vdp.ReadHCounter()
	case port < 0xC0:
		if port&1 == 0 {
			return b.vdp.ReadData()
		}
		return b.vdp.ReadControl()
	default:
		if port&1 == 0 {
			return b.pads.ReadPortA()
		}
		return b.pads.ReadPortB()
	}
}

// WriteIO8 decodes I/O port writes: the memory control port (0x3E), the I/O
// control port (0x3F) driving the TH latch lines, and the VDP/PSG ports.
func (b *Bus) WriteIO8(port uint8, v uint8) {
	switch {
	case port < 0x40:
		if port&1 == 0 {
			b.writeMemoryControl(v)
		} else {
			b.ioControl = v
			b.pads.SetIOControl(v)
		}
	case port < 0x80:
		b.lastPSGByte = v
		b.psg.Write(v)
	case port < 0xC0:
		if port&1 == 0 {
			b.lastVDPDataByte = v
			b.vdp.WriteData(v)
		} else {
			b.vdp.WriteControl(v)
		}
	}
}

// LastPSGByte returns the last byte written to the PSG command port, for
// test introspection only; it has no effect on machine behaviour.
func (b *Bus) LastPSGByte() uint8 { return b.lastPSGByte }

// LastVDPDataByte returns the last byte written to the VDP data port, for
// test introspection only; it has no effect on machine behaviour.
func (b *Bus) LastVDPDataByte() uint8 { return b.lastVDPDataByte }

func (b *Bus) writeMemoryControl(v uint8) {
	enabled := v&0x04 == 0
	if enabled && !b.biosEnabled {
		b.biosFramesWaited = 0
	}
	b.biosEnabled = enabled
}

// CartRAM exposes the cartridge's battery-backed RAM banks, or a zero value
// if no cartridge is attached, for save-state use.
func (b *Bus) CartRAM() [2][0x4000]byte {
	if b.cart == nil {
		return [2][0x4000]byte{}
	}
	return b.cart.RAM()
}

// CartState returns a snapshot of the cartridge mapper's own state, or the
// zero value if no cartridge is attached.
func (b *Bus) CartState() cartridge.State {
	if b.cart == nil {
		return cartridge.State{}
	}
	return b.cart.GetState()
}

// SetCartState restores a cartridge mapper snapshot previously returned by
// CartState. A no-op if no cartridge is attached.
func (b *Bus) SetCartState(s cartridge.State) {
	if b.cart == nil {
		return
	}
	b.cart.SetState(s)
}

// State is a value-copy snapshot of work RAM and the memory-control
// latches; the cartridge and BIOS images themselves are not part of it.
type State struct {
	RAM              [workRAMSize]byte
	BiosEnabled      bool
	BiosFramesWaited int
	IOControl        uint8
	LastPSGByte      uint8
	LastVDPDataByte  uint8
}

// GetState returns a snapshot of the bus's own mutable state.
func (b *Bus) GetState() State {
	return State{
		RAM: b.ram, BiosEnabled: b.biosEnabled,
		BiosFramesWaited: b.biosFramesWaited, IOControl: b.ioControl,
		LastPSGByte: b.lastPSGByte, LastVDPDataByte: b.lastVDPDataByte,
	}
}

// SetState restores a snapshot previously returned by GetState.
func (b *Bus) SetState(s State) {
	b.ram = s.RAM
	b.biosEnabled = s.BiosEnabled
	b.biosFramesWaited = s.BiosFramesWaited
	b.ioControl = s.IOControl
	b.lastPSGByte = s.LastPSGByte
	b.lastVDPDataByte = s.LastVDPDataByte
}
