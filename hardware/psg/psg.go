// Package psg implements the SN76489 programmable sound generator used by
// the Sega Master System: three tone channels, one noise channel, and the
// mixed 14-bit sample the scheduler samples at whatever rate the host
// wants.
package psg

import "github.com/mk3emu/smscore/config"

// attenuationTable is a 16-entry, ~2dB/step log curve; slot 15 is silent.
// The exact values are advisory (§9 open question), not bit-exact against
// any particular reference.
var attenuationTable = buildAttenuationTable()

func buildAttenuationTable() [16]int {
	var t [16]int
	amp := 2000.0
	for i := 0; i < 15; i++ {
		t[i] = int(amp)
		amp *= 0.7943 // 10^(-2/20), i.e. -2dB per step
	}
	t[15] = 0
	return t
}

type toneChannel struct {
	period     uint16 // 10-bit tone divider
	counter    int
	polarity   bool
	attenuation uint8 // 4-bit, 15 = silent
}

func (t *toneChannel) tick() {
	if t.period == 0 {
		return // "period 0 yields no output toggling" (§8 boundary behavior)
	}
	t.counter--
	if t.counter <= 0 {
		t.counter = int(t.period)
		t.polarity = !t.polarity
	}
}

type noiseChannel struct {
	white       bool
	shiftSelect uint8 // 0-3: 0x10, 0x20, 0x40, or tone-2-driven
	attenuation uint8
	counter     int
	lfsr        uint16
}

const noiseSeed = 0x4000

func (n *noiseChannel) reset() {
	n.lfsr = noiseSeed
}

func (n *noiseChannel) period(tone2Period uint16) int {
	switch n.shiftSelect {
	case 0:
		return 0x10
	case 1:
		return 0x20
	case 2:
		return 0x40
	default:
		return int(tone2Period)
	}
}

func (n *noiseChannel) tick(tone2Period uint16) {
	p := n.period(tone2Period)
	if p == 0 {
		return
	}
	n.counter--
	if n.counter <= 0 {
		n.counter = p
		var feedback uint16
		if n.white {
			feedback = (n.lfsr ^ (n.lfsr >> 3)) & 1
		} else {
			feedback = n.lfsr & 1
		}
		n.lfsr = (n.lfsr >> 1) | (feedback << 14)
	}
}

func (n *noiseChannel) output() bool {
	return n.lfsr&1 != 0
}

// PSG is the SN76489: three tone generators, one noise generator, and the
// latch state the single command byte protocol depends on.
type PSG struct {
	cfg *config.Config

	tone  [3]toneChannel
	noise noiseChannel

	latchedChannel  uint8
	latchedIsVolume bool

	cycleAcc int
}

// New returns a PSG configured with cfg's CPU-cycles-per-step divider,
// reset to its power-on (silent) state.
func New(cfg *config.Config) *PSG {
	p := &PSG{cfg: cfg}
	p.Reset()
	return p
}

// Reset silences every channel and clears the latch.
func (p *PSG) Reset() {
	for i := range p.tone {
		p.tone[i] = toneChannel{attenuation: 0x0F}
	}
	p.noise = noiseChannel{attenuation: 0x0F}
	p.noise.reset()
	p.latchedChannel = 0
	p.latchedIsVolume = false
	p.cycleAcc = 0
}

// Write decodes one command byte per §4.3: a LATCH byte (bit7 set) selects
// a channel and either its tone period's low 4 bits or its attenuation; a
// DATA byte (bit7 clear) updates the high 6 bits of the last-latched tone
// channel's period, and is ignored if the last latch targeted a volume or
// the noise channel.
func (p *PSG) Write(b uint8) {
	if b&0x80 != 0 {
		ch := (b >> 5) & 0x03
		isVolume := b&0x10 != 0
		data := b & 0x0F

		p.latchedChannel = ch
		p.latchedIsVolume = isVolume

		switch {
		case isVolume && ch == 3:
			p.noise.attenuation = data
		case isVolume:
			p.tone[ch].attenuation = data
		case ch == 3:
			p.noise.white = data&0x04 != 0
			p.noise.shiftSelect = data & 0x03
			p.noise.reset()
		default:
			p.tone[ch].period = (p.tone[ch].period & 0x3F0) | uint16(data)
		}
		return
	}

	if p.latchedIsVolume || p.latchedChannel == 3 {
		return
	}
	data := b & 0x3F
	p.tone[p.latchedChannel].period = (p.tone[p.latchedChannel].period & 0x0F) | uint16(data)<<4&0x3F0
}

// TickCycles advances every channel's divider by n CPU T-states, stepping
// internally every cfg.PSGClockDivider cycles.
func (p *PSG) TickCycles(n int) {
	if n <= 0 {
		return
	}
	p.cycleAcc += n
	for p.cycleAcc >= p.cfg.PSGClockDivider {
		p.cycleAcc -= p.cfg.PSGClockDivider
		p.tone[0].tick()
		p.tone[1].tick()
		p.tone[2].tick()
		p.noise.tick(p.tone[2].period)
	}
}

// GetSample mixes the four channels into a signed sample centered on zero:
// each channel contributes its attenuation-table amplitude, signed by its
// current polarity (tone) or LFSR output bit (noise).
func (p *PSG) GetSample() int16 {
	sample := 0
	for i := range p.tone {
		sample += signedAmplitude(p.tone[i].polarity, p.tone[i].attenuation)
	}
	sample += signedAmplitude(p.noise.output(), p.noise.attenuation)
	return int16(sample)
}

func signedAmplitude(positive bool, attenuation uint8) int {
	amp := attenuationTable[attenuation&0x0F]
	if positive {
		return amp
	}
	return -amp
}

// State is a value-copy snapshot of every channel and the command latch.
type State struct {
	Tone            [3]toneChannel
	Noise           noiseChannel
	LatchedChannel  uint8
	LatchedIsVolume bool
	CycleAcc        int
}

// GetState returns a snapshot suitable for SetState round-tripping.
func (p *PSG) GetState() State {
	return State{
		Tone: p.tone, Noise: p.noise,
		LatchedChannel: p.latchedChannel, LatchedIsVolume: p.latchedIsVolume,
		CycleAcc: p.cycleAcc,
	}
}

// SetState restores a snapshot previously returned by GetState.
func (p *PSG) SetState(s State) {
	p.tone, p.noise = s.Tone, s.Noise
	p.latchedChannel, p.latchedIsVolume = s.LatchedChannel, s.LatchedIsVolume
	p.cycleAcc = s.CycleAcc
}
