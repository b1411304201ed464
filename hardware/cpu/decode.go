package cpu

import "github.com/mk3emu/smscore/hardware/cpu/registers"

// readReg8/writeReg8 resolve one of the eight 3-bit register codes used
// throughout the base, CB and ED tables: 0-3 are B,C,D,E; 4-5 are H,L
// (or IXH/IXL, IYH/IYL when idx is non-nil); 6 is (HL)/(IX+d)/(IY+d) at
// addr; 7 is A.
func (c *CPU) readReg8(code uint8, idx *registers.Pair, addr uint16) uint8 {
	switch code {
	case 0:
		return c.R.BC.Hi
	case 1:
		return c.R.BC.Lo
	case 2:
		return c.R.DE.Hi
	case 3:
		return c.R.DE.Lo
	case 4:
		if idx != nil {
			return idx.Hi
		}
		return c.R.HL.Hi
	case 5:
		if idx != nil {
			return idx.Lo
		}
		return c.R.HL.Lo
	case 6:
		return c.bus.Read8(addr)
	default:
		return c.R.A()
	}
}

func (c *CPU) writeReg8(code uint8, v uint8, idx *registers.Pair, addr uint16) {
	switch code {
	case 0:
		c.R.BC.Hi = v
	case 1:
		c.R.BC.Lo = v
	case 2:
		c.R.DE.Hi = v
	case 3:
		c.R.DE.Lo = v
	case 4:
		if idx != nil {
			idx.Hi = v
			return
		}
		c.R.HL.Hi = v
	case 5:
		if idx != nil {
			idx.Lo = v
			return
		}
		c.R.HL.Lo = v
	case 6:
		c.bus.Write8(addr, v)
	default:
		c.R.SetA(v)
	}
}

// getRP/setRP resolve the 2-bit "rp" table: BC, DE, HL (or IX/IY), SP.
func (c *CPU) getRP(p uint8, idx *registers.Pair) uint16 {
	switch p {
	case 0:
		return c.R.BC.Get()
	case 1:
		return c.R.DE.Get()
	case 2:
		if idx != nil {
			return idx.Get()
		}
		return c.R.HL.Get()
	default:
		return c.R.SP
	}
}

func (c *CPU) setRP(p uint8, v uint16, idx *registers.Pair) {
	switch p {
	case 0:
		c.R.BC.Set(v)
	case 1:
		c.R.DE.Set(v)
	case 2:
		if idx != nil {
			idx.Set(v)
			return
		}
		c.R.HL.Set(v)
	default:
		c.R.SP = v
	}
}

// getRP2/setRP2 resolve the "rp2" table used by PUSH/POP: BC, DE, HL (or
// IX/IY), AF.
func (c *CPU) getRP2(p uint8, idx *registers.Pair) uint16 {
	if p == 3 {
		return c.R.AF.Get()
	}
	return c.getRP(p, idx)
}

func (c *CPU) setRP2(p uint8, v uint16, idx *registers.Pair) {
	if p == 3 {
		c.R.AF.Set(v)
		return
	}
	c.setRP(p, v, idx)
}

func (c *CPU) condition(y uint8) bool {
	switch y {
	case 0:
		return !c.R.FlagSet(registers.FlagZ)
	case 1:
		return c.R.FlagSet(registers.FlagZ)
	case 2:
		return !c.R.FlagSet(registers.FlagC)
	case 3:
		return c.R.FlagSet(registers.FlagC)
	case 4:
		return !c.R.FlagSet(registers.FlagPV)
	case 5:
		return c.R.FlagSet(registers.FlagPV)
	case 6:
		return !c.R.FlagSet(registers.FlagS)
	default:
		return c.R.FlagSet(registers.FlagS)
	}
}

func addSigned(pc uint16, d int8) uint16 {
	return uint16(int32(pc) + int32(d))
}

// memAddr computes the effective address for a (HL)/(IX+d)/(IY+d) operand,
// consuming the displacement byte when idx is non-nil. Call at most once
// per instruction: the displacement immediately follows the opcode (or the
// opcode's own prefix byte) and must not be read twice.
func (c *CPU) memAddr(idx *registers.Pair) uint16 {
	if idx == nil {
		return c.R.HL.Get()
	}
	d := int8(c.next8())
	return addSigned(idx.Get(), d)
}

// executeOpcode performs the side effects of one base-table opcode (x/y/z/p/q
// decoded per the standard Z80 opcode layout), substituting idx for HL where
// the DD/FD prefix applies.
func (c *CPU) executeOpcode(opcode uint8, idx *registers.Pair) {
	x := opcode >> 6
	y := (opcode >> 3) & 0x07
	z := opcode & 0x07
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		switch z {
		case 0:
			switch {
			case y == 0: // NOP
			case y == 1: // EX AF,AF'
				c.R.AF, c.R.AFShadow = c.R.AFShadow, c.R.AF
			case y == 2: // DJNZ d
				d := int8(c.next8())
				c.R.BC.Hi--
				if c.R.BC.Hi != 0 {
					c.R.PC = addSigned(c.R.PC, d)
				}
			case y == 3: // JR d
				d := int8(c.next8())
				c.R.PC = addSigned(c.R.PC, d)
			default: // JR cc,d
				d := int8(c.next8())
				if c.condition(y - 4) {
					c.R.PC = addSigned(c.R.PC, d)
				}
			}
		case 1:
			if q == 0 { // LD rp,nn
				c.setRP(p, c.next16(), idx)
			} else { // ADD HL,rp
				hl := c.getRP(2, idx)
				c.setRP(2, c.add16(hl, c.getRP(p, idx), false), idx)
			}
		case 2:
			switch {
			case q == 0 && p == 0: // LD (BC),A
				c.bus.Write8(c.R.BC.Get(), c.R.A())
			case q == 0 && p == 1: // LD (DE),A
				c.bus.Write8(c.R.DE.Get(), c.R.A())
			case q == 0 && p == 2: // LD (nn),HL
				addr := c.next16()
				v := c.getRP(2, idx)
				c.bus.Write8(addr, uint8(v))
				c.bus.Write8(addr+1, uint8(v>>8))
			case q == 0: // LD (nn),A
				c.bus.Write8(c.next16(), c.R.A())
			case q == 1 && p == 0: // LD A,(BC)
				c.R.SetA(c.bus.Read8(c.R.BC.Get()))
			case q == 1 && p == 1: // LD A,(DE)
				c.R.SetA(c.bus.Read8(c.R.DE.Get()))
			case q == 1 && p == 2: // LD HL,(nn)
				addr := c.next16()
				lo := c.bus.Read8(addr)
				hi := c.bus.Read8(addr + 1)
				c.setRP(2, uint16(hi)<<8|uint16(lo), idx)
			default: // LD A,(nn)
				c.R.SetA(c.bus.Read8(c.next16()))
			}
		case 3:
			if q == 0 {
				c.setRP(p, c.getRP(p, idx)+1, idx)
			} else {
				c.setRP(p, c.getRP(p, idx)-1, idx)
			}
		case 4: // INC r[y]
			var addr uint16
			if y == 6 {
				addr = c.memAddr(idx)
			}
			c.writeReg8(y, c.inc8(c.readReg8(y, idx, addr)), idx, addr)
		case 5: // DEC r[y]
			var addr uint16
			if y == 6 {
				addr = c.memAddr(idx)
			}
			c.writeReg8(y, c.dec8(c.readReg8(y, idx, addr)), idx, addr)
		case 6: // LD r[y],n
			var addr uint16
			if y == 6 {
				addr = c.memAddr(idx)
			}
			n := c.next8()
			c.writeReg8(y, n, idx, addr)
		default: // z == 7
			switch y {
			case 0: // RLCA
				a := c.R.A()
				carry := a&0x80 != 0
				res := a<<1 | boolBit(carry)
				c.R.SetA(res)
				c.R.SetFlag(registers.FlagH, false)
				c.R.SetFlag(registers.FlagN, false)
				c.R.SetFlag(registers.FlagC, carry)
				c.R.SetFlag(registers.FlagY, res&0x20 != 0)
				c.R.SetFlag(registers.FlagX, res&0x08 != 0)
			case 1: // RRCA
				a := c.R.A()
				carry := a&0x01 != 0
				res := a>>1 | boolBit(carry)<<7
				c.R.SetA(res)
				c.R.SetFlag(registers.FlagH, false)
				c.R.SetFlag(registers.FlagN, false)
				c.R.SetFlag(registers.FlagC, carry)
				c.R.SetFlag(registers.FlagY, res&0x20 != 0)
				c.R.SetFlag(registers.FlagX, res&0x08 != 0)
			case 2: // RLA
				a := c.R.A()
				carry := a&0x80 != 0
				res := a<<1 | boolBit(c.R.FlagSet(registers.FlagC))
				c.R.SetA(res)
				c.R.SetFlag(registers.FlagH, false)
				c.R.SetFlag(registers.FlagN, false)
				c.R.SetFlag(registers.FlagC, carry)
				c.R.SetFlag(registers.FlagY, res&0x20 != 0)
				c.R.SetFlag(registers.FlagX, res&0x08 != 0)
			case 3: // RRA
				a := c.R.A()
				carry := a&0x01 != 0
				res := a>>1 | boolBit(c.R.FlagSet(registers.FlagC))<<7
				c.R.SetA(res)
				c.R.SetFlag(registers.FlagH, false)
				c.R.SetFlag(registers.FlagN, false)
				c.R.SetFlag(registers.FlagC, carry)
				c.R.SetFlag(registers.FlagY, res&0x20 != 0)
				c.R.SetFlag(registers.FlagX, res&0x08 != 0)
			case 4:
				c.daa()
			case 5: // CPL
				res := ^c.R.A()
				c.R.SetA(res)
				c.R.SetFlag(registers.FlagH, true)
				c.R.SetFlag(registers.FlagN, true)
				c.R.SetFlag(registers.FlagY, res&0x20 != 0)
				c.R.SetFlag(registers.FlagX, res&0x08 != 0)
			case 6:
				c.scf()
			default:
				c.ccf()
			}
		}
	case 1:
		if y == 6 && z == 6 {
			c.R.Halt = true
			return
		}
		var addr uint16
		if y == 6 || z == 6 {
			addr = c.memAddr(idx)
		}
		c.writeReg8(y, c.readReg8(z, idx, addr), idx, addr)
	case 2:
		var addr uint16
		if z == 6 {
			addr = c.memAddr(idx)
		}
		c.aluOp(y, c.readReg8(z, idx, addr))
	default: // x == 3
		switch z {
		case 0: // RET cc
			if c.condition(y) {
				c.R.PC = c.pop()
			}
		case 1:
			switch {
			case q == 0: // POP rp2
				c.setRP2(p, c.pop(), idx)
			case p == 0: // RET
				c.R.PC = c.pop()
			case p == 1: // EXX
				c.R.BC, c.R.BCShadow = c.R.BCShadow, c.R.BC
				c.R.DE, c.R.DEShadow = c.R.DEShadow, c.R.DE
				c.R.HL, c.R.HLShadow = c.R.HLShadow, c.R.HL
			case p == 2: // JP (HL)/(IX)/(IY)
				c.R.PC = c.getRP(2, idx)
			default: // LD SP,HL/IX/IY
				c.R.SP = c.getRP(2, idx)
			}
		case 2: // JP cc,nn
			nn := c.next16()
			if c.condition(y) {
				c.R.PC = nn
			}
		case 3:
			switch y {
			case 0: // JP nn
				c.R.PC = c.next16()
			case 2: // OUT (n),A
				n := c.next8()
				c.bus.WriteIO8(n, c.R.A())
			case 3: // IN A,(n)
				n := c.next8()
				c.R.SetA(c.bus.ReadIO8(n))
			case 4: // EX (SP),HL/IX/IY
				lo := c.bus.Read8(c.R.SP)
				hi := c.bus.Read8(c.R.SP + 1)
				v := c.getRP(2, idx)
				c.bus.Write8(c.R.SP, uint8(v))
				c.bus.Write8(c.R.SP+1, uint8(v>>8))
				c.setRP(2, uint16(hi)<<8|uint16(lo), idx)
			case 5: // EX DE,HL -- unaffected by DD/FD on real hardware
				c.R.DE, c.R.HL = c.R.HL, c.R.DE
			case 6:
				c.R.IFF1 = false
				c.R.IFF2 = false
			default:
				c.R.IFF1 = true
				c.R.IFF2 = true
			}
		case 4: // CALL cc,nn
			nn := c.next16()
			if c.condition(y) {
				c.push(c.R.PC)
				c.R.PC = nn
			}
		case 5:
			if q == 0 {
				c.push(c.getRP2(p, idx))
			} else if p == 0 { // CALL nn
				nn := c.next16()
				c.push(c.R.PC)
				c.R.PC = nn
			}
		case 6: // ALU n
			c.aluOp(y, c.next8())
		default: // RST y*8
			c.push(c.R.PC)
			c.R.PC = uint16(y) * 8
		}
	}
}

// executeCB performs a plain (non-indexed) CB-prefixed opcode.
func (c *CPU) executeCB(op2 uint8) int {
	x := op2 >> 6
	y := (op2 >> 3) & 0x07
	z := op2 & 0x07

	var addr uint16
	if z == 6 {
		addr = c.R.HL.Get()
	}
	val := c.readReg8(z, nil, addr)

	switch x {
	case 0:
		c.writeReg8(z, c.rot8(y, val), nil, addr)
	case 1:
		c.bitTest(y, val)
	case 2:
		c.writeReg8(z, val&^(1<<y), nil, addr)
	default:
		c.writeReg8(z, val|1<<y, nil, addr)
	}
	return cbCycles[op2]
}

// executeIndexedCB performs a DD-CB/FD-CB opcode: the operand is always
// (idx+d), and non-BIT forms additionally write the result back into the
// register named by the low 3 bits (the undocumented "double write"),
// unless those bits select (HL) (z==6), which has no second destination.
func (c *CPU) executeIndexedCB(idx *registers.Pair, d int8, op4 uint8) int {
	addr := addSigned(idx.Get(), d)
	val := c.bus.Read8(addr)

	x := op4 >> 6
	y := (op4 >> 3) & 0x07
	z := op4 & 0x07

	switch x {
	case 1:
		c.bitTest(y, val)
		return 20
	case 0:
		res := c.rot8(y, val)
		c.bus.Write8(addr, res)
		if z != 6 {
			c.writeReg8(z, res, nil, 0)
		}
	case 2:
		res := val &^ (1 << y)
		c.bus.Write8(addr, res)
		if z != 6 {
			c.writeReg8(z, res, nil, 0)
		}
	default:
		res := val | 1<<y
		c.bus.Write8(addr, res)
		if z != 6 {
			c.writeReg8(z, res, nil, 0)
		}
	}
	return 23
}
