package cpu

import "github.com/mk3emu/smscore/hardware/cpu/registers"

var edIMTable = [8]int{0, 0, 1, 2, 0, 0, 1, 2}

// executeED performs an ED-prefixed opcode. Rows not covered below (x==0,
// x==3, and the y<4 rows of x==2) are the undocumented 8T no-ops.
func (c *CPU) executeED(op2 uint8) {
	x := op2 >> 6
	y := (op2 >> 3) & 0x07
	z := op2 & 0x07
	p := y >> 1
	q := y & 1

	switch x {
	case 1:
		switch z {
		case 0: // IN r[y],(C)
			val := c.bus.ReadIO8(c.R.BC.Lo)
			c.setSZYX(val)
			c.R.SetFlag(registers.FlagH, false)
			c.R.SetFlag(registers.FlagN, false)
			c.R.SetFlag(registers.FlagPV, parity(val))
			if y != 6 {
				c.writeReg8(y, val, nil, 0)
			}
		case 1: // OUT (C),r[y]
			var val uint8
			if y != 6 {
				val = c.readReg8(y, nil, 0)
			}
			c.bus.WriteIO8(c.R.BC.Lo, val)
		case 2:
			if q == 0 {
				c.R.HL.Set(c.sbc16(c.R.HL.Get(), c.getRP(p, nil)))
			} else {
				c.R.HL.Set(c.adc16(c.R.HL.Get(), c.getRP(p, nil)))
			}
		case 3:
			addr := c.next16()
			if q == 0 {
				v := c.getRP(p, nil)
				c.bus.Write8(addr, uint8(v))
				c.bus.Write8(addr+1, uint8(v>>8))
			} else {
				lo := c.bus.Read8(addr)
				hi := c.bus.Read8(addr + 1)
				c.setRP(p, uint16(hi)<<8|uint16(lo), nil)
			}
		case 4: // NEG
			c.R.SetA(c.sub8(0, c.R.A(), false))
		case 5: // RETN (and, for y==1, RETI: behaviourally identical)
			c.R.PC = c.pop()
			c.R.IFF1 = c.R.IFF2
		case 6:
			c.R.IM = edIMTable[y]
		default: // z == 7
			switch y {
			case 0: // LD I,A
				c.R.I = c.R.A()
			case 1: // LD R,A
				c.R.R = c.R.A()
			case 2: // LD A,I
				c.R.SetA(c.R.I)
				c.setSZYX(c.R.I)
				c.R.SetFlag(registers.FlagH, false)
				c.R.SetFlag(registers.FlagN, false)
				c.R.SetFlag(registers.FlagPV, c.R.IFF2)
			case 3: // LD A,R
				c.R.SetA(c.R.R)
				c.setSZYX(c.R.R)
				c.R.SetFlag(registers.FlagH, false)
				c.R.SetFlag(registers.FlagN, false)
				c.R.SetFlag(registers.FlagPV, c.R.IFF2)
			case 4: // RRD
				addr := c.R.HL.Get()
				m := c.bus.Read8(addr)
				a := c.R.A()
				newA := a&0xF0 | m&0x0F
				newM := (a&0x0F)<<4 | (m&0xF0)>>4
				c.R.SetA(newA)
				c.bus.Write8(addr, newM)
				c.setSZYX(newA)
				c.R.SetFlag(registers.FlagH, false)
				c.R.SetFlag(registers.FlagN, false)
				c.R.SetFlag(registers.FlagPV, parity(newA))
			case 5: // RLD
				addr := c.R.HL.Get()
				m := c.bus.Read8(addr)
				a := c.R.A()
				newA := a&0xF0 | (m&0xF0)>>4
				newM := (m&0x0F)<<4 | a&0x0F
				c.R.SetA(newA)
				c.bus.Write8(addr, newM)
				c.setSZYX(newA)
				c.R.SetFlag(registers.FlagH, false)
				c.R.SetFlag(registers.FlagN, false)
				c.R.SetFlag(registers.FlagPV, parity(newA))
			}
		}
	case 2:
		if y >= 4 {
			c.executeEDBlock(y, z)
		}
	}
}

// executeEDBlock implements the sixteen LDI/LDD/LDIR/LDDR-family block
// instructions. Repeating forms (y>=6) rewind PC to the ED prefix byte
// when BC (or the relevant counter) is still non-zero, so the scheduler
// naturally re-enters the same instruction on its next Step call; this is
// the per-iteration equivalent of collapsing the loop into a single step,
// and keeps every iteration within one VDP-tick granularity by
// construction.
func (c *CPU) executeEDBlock(y, z uint8) {
	repeat := y >= 6
	inc := y&1 == 0

	switch z {
	case 0: // LDI/LDD/LDIR/LDDR
		val := c.bus.Read8(c.R.HL.Get())
		c.bus.Write8(c.R.DE.Get(), val)
		if inc {
			c.R.HL.Set(c.R.HL.Get() + 1)
			c.R.DE.Set(c.R.DE.Get() + 1)
		} else {
			c.R.HL.Set(c.R.HL.Get() - 1)
			c.R.DE.Set(c.R.DE.Get() - 1)
		}
		c.R.BC.Set(c.R.BC.Get() - 1)
		n := val + c.R.A()
		c.R.SetFlag(registers.FlagH, false)
		c.R.SetFlag(registers.FlagN, false)
		c.R.SetFlag(registers.FlagPV, c.R.BC.Get() != 0)
		c.R.SetFlag(registers.FlagY, n&0x02 != 0)
		c.R.SetFlag(registers.FlagX, n&0x08 != 0)
		if repeat && c.R.BC.Get() != 0 {
			c.R.PC -= 2
		}
	case 1: // CPI/CPD/CPIR/CPDR
		val := c.bus.Read8(c.R.HL.Get())
		a := c.R.A()
		res := a - val
		if inc {
			c.R.HL.Set(c.R.HL.Get() + 1)
		} else {
			c.R.HL.Set(c.R.HL.Get() - 1)
		}
		c.R.BC.Set(c.R.BC.Get() - 1)
		halfBorrow := a&0x0F < val&0x0F
		c.R.SetFlag(registers.FlagS, res&0x80 != 0)
		c.R.SetFlag(registers.FlagZ, res == 0)
		c.R.SetFlag(registers.FlagH, halfBorrow)
		c.R.SetFlag(registers.FlagPV, c.R.BC.Get() != 0)
		c.R.SetFlag(registers.FlagN, true)
		n := res
		if halfBorrow {
			n--
		}
		c.R.SetFlag(registers.FlagY, n&0x02 != 0)
		c.R.SetFlag(registers.FlagX, n&0x08 != 0)
		if repeat && c.R.BC.Get() != 0 && res != 0 {
			c.R.PC -= 2
		}
	case 2: // INI/IND/INIR/INDR
		val := c.bus.ReadIO8(c.R.BC.Lo)
		c.bus.Write8(c.R.HL.Get(), val)
		c.R.BC.Hi--
		if inc {
			c.R.HL.Set(c.R.HL.Get() + 1)
		} else {
			c.R.HL.Set(c.R.HL.Get() - 1)
		}
		c.R.SetFlag(registers.FlagZ, c.R.BC.Hi == 0)
		c.R.SetFlag(registers.FlagN, val&0x80 != 0)
		if repeat && c.R.BC.Hi != 0 {
			c.R.PC -= 2
		}
	default: // OUTI/OUTD/OTIR/OTDR
		val := c.bus.Read8(c.R.HL.Get())
		c.R.BC.Hi--
		c.bus.WriteIO8(c.R.BC.Lo, val)
		if inc {
			c.R.HL.Set(c.R.HL.Get() + 1)
		} else {
			c.R.HL.Set(c.R.HL.Get() - 1)
		}
		c.R.SetFlag(registers.FlagZ, c.R.BC.Hi == 0)
		c.R.SetFlag(registers.FlagN, val&0x80 != 0)
		if repeat && c.R.BC.Hi != 0 {
			c.R.PC -= 2
		}
	}
}
