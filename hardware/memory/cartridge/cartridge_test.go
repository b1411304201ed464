package cartridge_test

import (
	"testing"

	"github.com/mk3emu/smscore/errors"
	"github.com/mk3emu/smscore/hardware/memory/cartridge"
	"github.com/mk3emu/smscore/test"
)

func fourBankImage() []byte {
	img := make([]byte, 4*0x4000)
	for bank := 0; bank < 4; bank++ {
		for i := 0; i < 0x4000; i++ {
			img[bank*0x4000+i] = uint8(bank)
		}
	}
	return img
}

func TestNewRejectsInvalidSize(t *testing.T) {
	_, err := cartridge.New(make([]byte, 100))
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, errors.Is(err, errors.InvalidCartridgeSize), true)
}

func TestPowerOnBankLayout(t *testing.T) {
	c, err := cartridge.New(fourBankImage())
	test.ExpectSuccess(t, err)

	test.ExpectEquality(t, c.Read(0x0400), uint8(0))
	test.ExpectEquality(t, c.Read(0x4000), uint8(1))
	test.ExpectEquality(t, c.Read(0x8000), uint8(2))
}

// TestBankSwitchRemapsSlot exercises the core mapper scenario: writing bank
// 3 to the slot-2 control register (0xFFFF) immediately changes what reads
// from 0x8000-0xBFFF return.
func TestBankSwitchRemapsSlot(t *testing.T) {
	c, err := cartridge.New(fourBankImage())
	test.ExpectSuccess(t, err)

	c.Write(0xFFFF, 3)
	test.ExpectEquality(t, c.Read(0x8000), uint8(3))
	test.ExpectEquality(t, c.Read(0xBFFF), uint8(3))
}

func TestFirst1KiBIgnoresSlot0BankSelect(t *testing.T) {
	c, err := cartridge.New(fourBankImage())
	test.ExpectSuccess(t, err)

	c.Write(0xFFFD, 2)
	test.ExpectEquality(t, c.Read(0x0000), uint8(0))
}

// TestSlot0RAMOverride exercises the control bit4 override named in spec.md
// §3/§4.4: with it set, the first 1KiB reads/writes cartridge RAM instead of
// ROM bank 0; clearing it restores the ROM view without disturbing the RAM.
func TestSlot0RAMOverride(t *testing.T) {
	c, err := cartridge.New(fourBankImage())
	test.ExpectSuccess(t, err)

	c.Write(0xFFFC, 0x10) // map cart RAM over slot 0's first 1KiB
	c.Write(0x0000, 0x55)
	test.ExpectEquality(t, c.Read(0x0000), uint8(0x55))
	test.ExpectEquality(t, c.Read(0x0200), uint8(0x00))

	c.Write(0xFFFC, 0x00) // back to ROM
	test.ExpectEquality(t, c.Read(0x0000), uint8(0))

	c.Write(0xFFFC, 0x10) // RAM content survives the toggle back
	test.ExpectEquality(t, c.Read(0x0000), uint8(0x55))
}

func TestCartRAMOverlay(t *testing.T) {
	c, err := cartridge.New(fourBankImage())
	test.ExpectSuccess(t, err)

	c.Write(0xFFFC, 0x08) // map cart RAM bank 0 into slot 2
	c.Write(0x8000, 0x42)
	test.ExpectEquality(t, c.Read(0x8000), uint8(0x42))

	c.Write(0xFFFC, 0x00) // back to ROM
	test.ExpectEquality(t, c.Read(0x8000), uint8(2))
}
