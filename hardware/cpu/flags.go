package cpu

import "github.com/mk3emu/smscore/hardware/cpu/registers"

func (c *CPU) setSZYX(v uint8) {
	c.R.SetFlag(registers.FlagS, v&0x80 != 0)
	c.R.SetFlag(registers.FlagZ, v == 0)
	c.R.SetFlag(registers.FlagY, v&0x20 != 0)
	c.R.SetFlag(registers.FlagX, v&0x08 != 0)
}

func (c *CPU) setSZ16(v uint16) {
	c.R.SetFlag(registers.FlagS, v&0x8000 != 0)
	c.R.SetFlag(registers.FlagZ, v == 0)
}

func (c *CPU) add8(a, b uint8, carry bool) uint8 {
	var cin uint16
	if carry {
		cin = 1
	}
	sum := uint16(a) + uint16(b) + cin
	res := uint8(sum)
	c.setSZYX(res)
	c.R.SetFlag(registers.FlagC, sum > 0xFF)
	c.R.SetFlag(registers.FlagH, (a&0x0F)+(b&0x0F)+uint8(cin) > 0x0F)
	overflow := (a^b)&0x80 == 0 && (a^res)&0x80 != 0
	c.R.SetFlag(registers.FlagPV, overflow)
	c.R.SetFlag(registers.FlagN, false)
	return res
}

func (c *CPU) sub8(a, b uint8, carry bool) uint8 {
	var cin int16
	if carry {
		cin = 1
	}
	diff := int16(a) - int16(b) - cin
	res := uint8(diff)
	c.setSZYX(res)
	c.R.SetFlag(registers.FlagC, diff < 0)
	c.R.SetFlag(registers.FlagH, int16(a&0x0F)-int16(b&0x0F)-cin < 0)
	overflow := (a^b)&0x80 != 0 && (a^res)&0x80 != 0
	c.R.SetFlag(registers.FlagPV, overflow)
	c.R.SetFlag(registers.FlagN, true)
	return res
}

// cp8 computes a-b for flag purposes only, with the undocumented Y/X bits
// taken from the operand rather than the (discarded) result.
func (c *CPU) cp8(a, b uint8) {
	c.sub8(a, b, false)
	c.R.SetFlag(registers.FlagY, b&0x20 != 0)
	c.R.SetFlag(registers.FlagX, b&0x08 != 0)
}

func (c *CPU) logic8(res uint8, isAnd bool) uint8 {
	c.setSZYX(res)
	c.R.SetFlag(registers.FlagH, isAnd)
	c.R.SetFlag(registers.FlagPV, parity(res))
	c.R.SetFlag(registers.FlagN, false)
	c.R.SetFlag(registers.FlagC, false)
	return res
}

func (c *CPU) inc8(a uint8) uint8 {
	res := a + 1
	c.setSZYX(res)
	c.R.SetFlag(registers.FlagH, a&0x0F == 0x0F)
	c.R.SetFlag(registers.FlagPV, a == 0x7F)
	c.R.SetFlag(registers.FlagN, false)
	return res
}

func (c *CPU) dec8(a uint8) uint8 {
	res := a - 1
	c.setSZYX(res)
	c.R.SetFlag(registers.FlagH, a&0x0F == 0x00)
	c.R.SetFlag(registers.FlagPV, a == 0x80)
	c.R.SetFlag(registers.FlagN, true)
	return res
}

func (c *CPU) aluOp(y uint8, val uint8) {
	a := c.R.A()
	switch y {
	case 0:
		c.R.SetA(c.add8(a, val, false))
	case 1:
		c.R.SetA(c.add8(a, val, c.R.FlagSet(registers.FlagC)))
	case 2:
		c.R.SetA(c.sub8(a, val, false))
	case 3:
		c.R.SetA(c.sub8(a, val, c.R.FlagSet(registers.FlagC)))
	case 4:
		c.R.SetA(c.logic8(a&val, true))
	case 5:
		c.R.SetA(c.logic8(a^val, false))
	case 6:
		c.R.SetA(c.logic8(a|val, false))
	case 7:
		c.cp8(a, val)
	}
}

// add16 implements ADD HL/IX/IY,rp: only C, H, N and the undocumented Y/X
// bits are affected; S, Z and PV are left alone, matching the documented
// (non-ED) form.
func (c *CPU) add16(a, b uint16, carry bool) uint16 {
	var cin uint32
	if carry {
		cin = 1
	}
	sum := uint32(a) + uint32(b) + cin
	res := uint16(sum)
	c.R.SetFlag(registers.FlagN, false)
	c.R.SetFlag(registers.FlagC, sum > 0xFFFF)
	c.R.SetFlag(registers.FlagH, (a&0x0FFF)+(b&0x0FFF)+uint16(cin) > 0x0FFF)
	c.R.SetFlag(registers.FlagY, uint8(res>>8)&0x20 != 0)
	c.R.SetFlag(registers.FlagX, uint8(res>>8)&0x08 != 0)
	return res
}

// adc16/sbc16 implement the ED-prefixed 16-bit forms, which additionally
// affect S, Z and PV.
func (c *CPU) adc16(a, b uint16) uint16 {
	res := c.add16(a, b, c.R.FlagSet(registers.FlagC))
	c.setSZ16(res)
	overflow := (a^b)&0x8000 == 0 && (a^res)&0x8000 != 0
	c.R.SetFlag(registers.FlagPV, overflow)
	return res
}

func (c *CPU) sbc16(a, b uint16) uint16 {
	var cin int32
	if c.R.FlagSet(registers.FlagC) {
		cin = 1
	}
	diff := int32(a) - int32(b) - cin
	res := uint16(diff)
	c.setSZ16(res)
	c.R.SetFlag(registers.FlagN, true)
	c.R.SetFlag(registers.FlagC, diff < 0)
	c.R.SetFlag(registers.FlagH, int32(a&0x0FFF)-int32(b&0x0FFF)-cin < 0)
	overflow := (a^b)&0x8000 != 0 && (a^res)&0x8000 != 0
	c.R.SetFlag(registers.FlagPV, overflow)
	c.R.SetFlag(registers.FlagY, uint8(res>>8)&0x20 != 0)
	c.R.SetFlag(registers.FlagX, uint8(res>>8)&0x08 != 0)
	return res
}

// rot8 implements the eight CB-table shift/rotate kinds: RLC, RRC, RL, RR,
// SLA, SRA, the undocumented SLL, and SRL, in that order.
func (c *CPU) rot8(kind uint8, v uint8) uint8 {
	var res uint8
	var carryOut bool
	switch kind {
	case 0: // RLC
		carryOut = v&0x80 != 0
		res = v<<1 | boolBit(carryOut)
	case 1: // RRC
		carryOut = v&0x01 != 0
		res = v>>1 | boolBit(carryOut)<<7
	case 2: // RL
		carryOut = v&0x80 != 0
		res = v<<1 | boolBit(c.R.FlagSet(registers.FlagC))
	case 3: // RR
		carryOut = v&0x01 != 0
		res = v>>1 | boolBit(c.R.FlagSet(registers.FlagC))<<7
	case 4: // SLA
		carryOut = v&0x80 != 0
		res = v << 1
	case 5: // SRA
		carryOut = v&0x01 != 0
		res = v>>1 | v&0x80
	case 6: // SLL (undocumented)
		carryOut = v&0x80 != 0
		res = v<<1 | 1
	case 7: // SRL
		carryOut = v&0x01 != 0
		res = v >> 1
	}
	c.setSZYX(res)
	c.R.SetFlag(registers.FlagH, false)
	c.R.SetFlag(registers.FlagN, false)
	c.R.SetFlag(registers.FlagPV, parity(res))
	c.R.SetFlag(registers.FlagC, carryOut)
	return res
}

func (c *CPU) bitTest(n uint8, v uint8) {
	zero := v&(1<<n) == 0
	c.R.SetFlag(registers.FlagZ, zero)
	c.R.SetFlag(registers.FlagPV, zero)
	c.R.SetFlag(registers.FlagH, true)
	c.R.SetFlag(registers.FlagN, false)
	c.R.SetFlag(registers.FlagS, n == 7 && !zero)
	c.R.SetFlag(registers.FlagY, v&0x20 != 0)
	c.R.SetFlag(registers.FlagX, v&0x08 != 0)
}

func (c *CPU) daa() {
	a := c.R.A()
	cFlag := c.R.FlagSet(registers.FlagC)
	hFlag := c.R.FlagSet(registers.FlagH)
	nFlag := c.R.FlagSet(registers.FlagN)

	var corr uint8
	if hFlag || a&0x0F > 9 {
		corr |= 0x06
	}
	if cFlag || a > 0x99 {
		corr |= 0x60
		cFlag = true
	}

	var res uint8
	if nFlag {
		res = a - corr
	} else {
		res = a + corr
	}

	var hOut bool
	if nFlag {
		hOut = hFlag && a&0x0F < 6
	} else {
		hOut = a&0x0F > 9
	}

	c.R.SetA(res)
	c.setSZYX(res)
	c.R.SetFlag(registers.FlagH, hOut)
	c.R.SetFlag(registers.FlagPV, parity(res))
	c.R.SetFlag(registers.FlagN, nFlag)
	c.R.SetFlag(registers.FlagC, cFlag)
}

func (c *CPU) scf() {
	c.R.SetFlag(registers.FlagH, false)
	c.R.SetFlag(registers.FlagN, false)
	c.R.SetFlag(registers.FlagC, true)
	c.R.SetFlag(registers.FlagY, c.R.A()&0x20 != 0)
	c.R.SetFlag(registers.FlagX, c.R.A()&0x08 != 0)
}

func (c *CPU) ccf() {
	oldC := c.R.FlagSet(registers.FlagC)
	c.R.SetFlag(registers.FlagH, oldC)
	c.R.SetFlag(registers.FlagN, false)
	c.R.SetFlag(registers.FlagC, !oldC)
	c.R.SetFlag(registers.FlagY, c.R.A()&0x20 != 0)
	c.R.SetFlag(registers.FlagX, c.R.A()&0x08 != 0)
}
