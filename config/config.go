// Package config carries the timing and behavioural knobs that the core
// uses instead of hard-coded constants, so a host can retarget NTSC-derived
// defaults or flip an implementation choice for comparison against a
// reference trace.
package config

// TVSystem names the TV timing system. Only NTSC timing is implemented:
// nothing in the core reads this value, so PAL behaves identically to
// NTSC.
type TVSystem int

const (
	NTSC TVSystem = iota
	PAL
)

// Config holds every timing/behavioural knob named in the core's design.
type Config struct {
	// TVSystem records the TV timing system. The line/frame counts below
	// are set independently of it.
	TVSystem TVSystem

	// TStatesPerScanline is the number of Z80 T-states in one VDP scanline.
	TStatesPerScanline int

	// ScanlinesPerFrame is the number of scanlines, including VBlank, in
	// one VDP frame.
	ScanlinesPerFrame int

	// PSGClockDivider is the number of CPU cycles consumed per PSG internal
	// clock tick.
	PSGClockDivider int

	// VDPPortWaitStates is a wait-state count for CPU accesses to the VDP
	// ports. Nothing in the core reads it: VDP port accesses cost no extra
	// T-states whatever its value.
	VDPPortWaitStates int

	// BIOSAutoDisableFrames is the number of frames the BIOS overlay
	// remains mapped in before the bus force-disables it if the cartridge
	// hasn't already written to the memory control port. Zero (the
	// default) turns the auto-disable off.
	BIOSAutoDisableFrames int

	// IgnoreBackgroundPaletteBit, when true, ignores the Mode-4 background
	// palette-select bit (name-table bit 11) and always reads background
	// pixels from CRAM entries 0-15. The default (false) honors the bit,
	// reading entries 16-31 when it is set.
	IgnoreBackgroundPaletteBit bool
}

// Option configures a Config.
type Option func(*Config)

// WithTVSystem overrides the TV timing system.
func WithTVSystem(tv TVSystem) Option {
	return func(c *Config) { c.TVSystem = tv }
}

// WithIgnoreBackgroundPaletteBit overrides the background palette-select
// bit interpretation.
func WithIgnoreBackgroundPaletteBit(ignore bool) Option {
	return func(c *Config) { c.IgnoreBackgroundPaletteBit = ignore }
}

// WithBIOSAutoDisableFrames overrides the BIOS auto-disable threshold.
func WithBIOSAutoDisableFrames(frames int) Option {
	return func(c *Config) { c.BIOSAutoDisableFrames = frames }
}

// NewDefault returns the NTSC-timed configuration described by the core's
// design, as modified by opts.
func NewDefault(opts ...Option) *Config {
	c := &Config{
		TVSystem:              NTSC,
		TStatesPerScanline:    228,
		ScanlinesPerFrame:     262,
		PSGClockDivider:       16,
		VDPPortWaitStates:     0,
		BIOSAutoDisableFrames: 0,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
