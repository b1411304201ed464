// Package cartridge models a Sega Master System cartridge image and the
// standard Sega memory mapper that banks it into the CPU's 16KiB slots.
package cartridge

import "github.com/mk3emu/smscore/errors"

const bankSize = 0x4000

// Cartridge is an immutable ROM image paired with the mapper state that
// decides which 16KiB bank appears in each of the three CPU slots.
type Cartridge struct {
	rom   []byte
	banks int

	// control is the byte last written to 0xFFFC: bit 3 maps cartridge RAM
	// into slot 2 instead of ROM, bit 2 selects which 16KiB RAM bank, bit 4
	// maps cartridge RAM over the first 1KiB of slot 0 instead of ROM bank 0.
	control uint8

	slot0 uint8 // bank mapped at 0x0000-0x3FFF (0x0000-0x03FF overridable by control bit 4)
	slot1 uint8 // bank mapped at 0x4000-0x7FFF
	slot2 uint8 // bank mapped at 0x8000-0xBFFF, or cart RAM if control bit 3

	ram      [2][0x4000]byte // two swappable 16KiB cartridge RAM banks
	slot0RAM [0x400]byte     // 1KiB RAM overlay for 0x0000-0x03FF, control bit 4
}

// New validates image and returns a Cartridge with the mapper reset to its
// power-on state (all three slots mapped to banks 0, 1, 2).
func New(image []byte) (*Cartridge, error) {
	if len(image) == 0 || len(image)%bankSize != 0 {
		return nil, errors.Errorf(errors.InvalidCartridgeSize, len(image))
	}

	c := &Cartridge{
		rom:   image,
		banks: len(image) / bankSize,
	}
	c.Reset()
	return c, nil
}

// Reset restores the mapper to its power-on bank assignment.
func (c *Cartridge) Reset() {
	c.control = 0
	c.slot0 = 0
	c.slot1 = 1 % uint8(c.banks)
	c.slot2 = 2 % uint8(c.banks)
}

func (c *Cartridge) bank(n uint8) []byte {
	n = n % uint8(c.banks)
	start := int(n) * bankSize
	return c.rom[start : start+bankSize]
}

// Read returns the byte the mapper currently exposes at addr (0x0000-0xBFFF;
// the range above that is system work RAM, handled by the memory bus).
func (c *Cartridge) Read(addr uint16) uint8 {
	switch {
	case addr < 0x0400:
		if c.control&0x10 != 0 {
			return c.slot0RAM[addr]
		}
		// Otherwise the first 1KiB is always ROM bank 0, so code at the
		// reset vector is reachable regardless of the current slot-0 bank.
		return c.rom[addr]
	case addr < bankSize:
		return c.bank(c.slot0)[addr]
	case addr < 2*bankSize:
		return c.bank(c.slot1)[addr-bankSize]
	default: // 0x8000-0xBFFF
		if c.control&0x08 != 0 {
			bankIdx := (c.control >> 2) & 0x01
			return c.ram[bankIdx][addr-2*bankSize]
		}
		return c.bank(c.slot2)[addr-2*bankSize]
	}
}

// Write handles both cartridge RAM writes (when paged into slot 2) and the
// four mapper control registers at 0xFFFC-0xFFFF. Plain ROM writes outside
// those registers are ignored, matching hardware.
func (c *Cartridge) Write(addr uint16, v uint8) {
	switch {
	case addr < 0x0400 && c.control&0x10 != 0:
		c.slot0RAM[addr] = v
	case addr >= 0x8000 && addr < 0xC000 && c.control&0x08 != 0:
		bankIdx := (c.control >> 2) & 0x01
		c.ram[bankIdx][addr-2*bankSize] = v
	case addr == 0xFFFC:
		c.control = v
	case addr == 0xFFFD:
		c.slot0 = v
	case addr == 0xFFFE:
		c.slot1 = v
	case addr == 0xFFFF:
		c.slot2 = v
	}
}

// Banks reports the number of 16KiB banks in the loaded image.
func (c *Cartridge) Banks() int { return c.banks }

// RAM exposes the two cartridge RAM banks for save-state/introspection use.
func (c *Cartridge) RAM() [2][0x4000]byte { return c.ram }

// SetRAM restores cartridge RAM from a save state.
func (c *Cartridge) SetRAM(ram [2][0x4000]byte) { c.ram = ram }

// State is a value-copy snapshot of the mapper's own bookkeeping (not the
// ROM image, which is immutable and reloaded by the caller).
type State struct {
	Control  uint8
	Slot0    uint8
	Slot1    uint8
	Slot2    uint8
	RAM      [2][0x4000]byte
	Slot0RAM [0x400]byte
}

// GetState returns a snapshot of the mapper state.
func (c *Cartridge) GetState() State {
	return State{
		Control: c.control, Slot0: c.slot0, Slot1: c.slot1, Slot2: c.slot2,
		RAM: c.ram, Slot0RAM: c.slot0RAM,
	}
}

// SetState restores a snapshot previously returned by GetState.
func (c *Cartridge) SetState(s State) {
	c.control = s.Control
	c.slot0 = s.Slot0
	c.slot1 = s.Slot1
	c.slot2 = s.Slot2
	c.ram = s.RAM
	c.slot0RAM = s.Slot0RAM
}
