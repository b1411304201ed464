package smscore_test

import (
	"testing"

	"github.com/mk3emu/smscore"
	"github.com/mk3emu/smscore/config"
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

func TestLoadCartridgeRejectsBadSize(t *testing.T) {
	m := smscore.New(nil)
	err := m.LoadCartridge(make([]byte, 100))
	test.ExpectFailure(t, err)
}

// TestRunCyclesExecutesCartridgeCode loads a tiny program into the
// cartridge's unpaged first 1KiB and checks the CPU actually runs it:
// LD A,0x42 / LD (0xC000),A / HALT.
func TestRunCyclesExecutesCartridgeCode(t *testing.T) {
	img := fourBankImage()
	img[0] = 0x3E // LD A,n
	img[1] = 0x42
	img[2] = 0x32 // LD (nn),A
	img[3] = 0x00
	img[4] = 0xC0
	img[5] = 0x76 // HALT

	m := smscore.New(nil)
	test.ExpectSuccess(t, m.LoadCartridge(img))
	m.Reset()
	m.RunCycles(100)

	test.ExpectEquality(t, m.Bus.Read8(0xC000), uint8(0x42))
}

// TestBankSwitchScenario exercises spec.md §8 scenario 1 end to end:
// cartridge code writes to the slot-1 bank-select register and the next
// fetch from that window sees the new bank.
func TestBankSwitchScenario(t *testing.T) {
	img := fourBankImage()
	// LD A,3 / LD (0xFFFE),A / LD A,(0x4000) / LD (0xC001),A / HALT
	img[0] = 0x3E
	img[1] = 0x03
	img[2] = 0x32
	img[3] = 0xFE
	img[4] = 0xFF
	img[5] = 0x3A
	img[6] = 0x00
	img[7] = 0x40
	img[8] = 0x32
	img[9] = 0x01
	img[10] = 0xC0
	img[11] = 0x76

	m := smscore.New(nil)
	test.ExpectSuccess(t, m.LoadCartridge(img))
	m.Reset()
	m.RunCycles(200)

	test.ExpectEquality(t, m.Bus.Read8(0xC001), uint8(3))
}

func TestRenderFrameProducesFullBuffer(t *testing.T) {
	m := smscore.New(nil)
	test.ExpectSuccess(t, m.LoadCartridge(fourBankImage()))
	m.Reset()

	out := m.RenderFrame()
	test.ExpectEquality(t, len(out), 256*192*3)
}

func TestRunFrameAdvancesVDPFrameCounter(t *testing.T) {
	m := smscore.New(nil)
	test.ExpectSuccess(t, m.LoadCartridge(fourBankImage()))
	m.Reset()

	test.ExpectEquality(t, m.VDP.FrameCount(), 0)
	m.RunFrame()
	test.ExpectEquality(t, m.VDP.FrameCount(), 1)
}

// TestSnapshotRestoreRoundTrip checks that a Snapshot taken mid-run, after
// being applied to a machine that has since diverged, restores it back to
// the exact prior state.
func TestSnapshotRestoreRoundTrip(t *testing.T) {
	m := smscore.New(nil)
	test.ExpectSuccess(t, m.LoadCartridge(fourBankImage()))
	m.Reset()
	m.RunCycles(50)

	snap := m.Snapshot()
	pcBefore := m.CPU.R.PC

	m.RunCycles(500)
	test.ExpectInequality(t, m.CPU.R.PC, pcBefore)

	m.Restore(snap)
	test.ExpectEquality(t, m.CPU.R.PC, pcBefore)
}

// TestBIOSOverlayVisibleUntilDisabled checks the BIOS overlays the
// cartridge at reset, and that writing the memory-control port switches
// execution over to cartridge code.
func TestBIOSOverlayVisibleUntilDisabled(t *testing.T) {
	bios := make([]byte, 0x800)
	bios[0] = 0xAA

	m := smscore.New(nil)
	test.ExpectSuccess(t, m.LoadBIOS(bios))
	test.ExpectSuccess(t, m.LoadCartridge(fourBankImage()))
	m.Reset()

	test.ExpectEquality(t, m.Bus.Read8(0x0000), uint8(0xAA))
	m.Bus.WriteIO8(0x3E, 0x04) // disable BIOS
	test.ExpectEquality(t, m.Bus.Read8(0x0000), uint8(0))
}

// TestPSGSampleAfterProgram exercises spec.md §8 scenario 5: a short
// program that writes a PSG LATCH+DATA pair produces a non-silent sample
// once the tone channel has ticked.
func TestPSGSampleAfterProgram(t *testing.T) {
	img := fourBankImage()
	// OUT (0x7F),A with A = latch channel 0 tone low nibble, then data,
	// then volume loudest.
	img[0] = 0x3E
	img[1] = 0x85 // latch ch0 tone, low nibble 5
	img[2] = 0xD3
	img[3] = 0x7F
	img[4] = 0x3E
	img[5] = 0x01 // data byte
	img[6] = 0xD3
	img[7] = 0x7F
	img[8] = 0x3E
	img[9] = 0x90 // latch ch0 volume loudest
	img[10] = 0xD3
	img[11] = 0x7F
	img[12] = 0x76 // HALT

	m := smscore.New(config.NewDefault())
	test.ExpectSuccess(t, m.LoadCartridge(img))
	m.Reset()
	m.RunCycles(200)

	test.ExpectInequality(t, m.GetSample(), int16(0))
}
