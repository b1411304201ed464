package errors

// error messages, grouped by the subsystem that raises them. Per spec.md §7,
// construction is the only place this core returns an error at all: every
// runtime CPU/VDP/PSG/Bus operation is total.
const (
	// cartridge
	InvalidCartridgeSize = "cartridge error: invalid image size (%d bytes)"
	InvalidBIOSSize      = "cartridge error: invalid BIOS image size (%d bytes)"
)
