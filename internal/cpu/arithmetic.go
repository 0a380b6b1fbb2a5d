package cpu

import "fmt"

// add adds n (and, if carryIn, the current carry flag) to A.
//
//	ADD A, n / ADC A, n
func (c *CPU) add(n uint8, carryIn bool) {
	carry := uint16(0)
	if carryIn && c.isFlagSet(FlagCarry) {
		carry = 1
	}
	sum := uint16(c.A) + uint16(n) + carry
	half := (c.A & 0xF) + (n & 0xF) + uint8(carry)
	c.setFlags(uint8(sum) == 0, false, half > 0xF, sum > 0xFF)
	c.A = uint8(sum)
}

// sub subtracts n (and, if carryIn, the current carry flag) from A.
//
//	SUB A, n / SBC A, n
func (c *CPU) sub(n uint8, carryIn bool) {
	carry := uint8(0)
	if carryIn && c.isFlagSet(FlagCarry) {
		carry = 1
	}
	diff := int16(c.A) - int16(n) - int16(carry)
	half := int16(c.A&0xF) - int16(n&0xF) - int16(carry)
	c.setFlags(uint8(diff) == 0, true, half < 0, diff < 0)
	c.A = uint8(diff)
}

// and ANDs n into A.
func (c *CPU) and(n uint8) {
	c.A &= n
	c.setFlags(c.A == 0, false, true, false)
}

// or ORs n into A.
func (c *CPU) or(n uint8) {
	c.A |= n
	c.setFlags(c.A == 0, false, false, false)
}

// xor XORs n into A.
func (c *CPU) xor(n uint8) {
	c.A ^= n
	c.setFlags(c.A == 0, false, false, false)
}

// compare sets flags as SUB n would, without modifying A.
//
//	CP n
func (c *CPU) compare(n uint8) {
	c.setFlags(c.A == n, true, n&0xF > c.A&0xF, n > c.A)
}

// increment returns n+1, setting Z/N/H (C is left untouched).
//
//	INC n
func (c *CPU) increment(n uint8) uint8 {
	result := n + 1
	c.flag(FlagZero, result == 0)
	c.clearFlag(FlagSubtract)
	c.flag(FlagHalfCarry, n&0xF == 0xF)
	return result
}

// decrement returns n-1, setting Z/N/H (C is left untouched).
//
//	DEC n
func (c *CPU) decrement(n uint8) uint8 {
	result := n - 1
	c.flag(FlagZero, result == 0)
	c.setFlag(FlagSubtract)
	c.flag(FlagHalfCarry, n&0xF == 0)
	return result
}

// addHLRR adds pair into HL, leaving Z untouched.
//
//	ADD HL, rr
func (c *CPU) addHLRR(pair *RegisterPair) {
	hl, nn := c.HL.Uint16(), pair.Uint16()
	sum := uint32(hl) + uint32(nn)
	c.flag(FlagSubtract, false)
	c.flag(FlagHalfCarry, (hl&0xFFF)+(nn&0xFFF) > 0xFFF)
	c.flag(FlagCarry, sum > 0xFFFF)
	c.HL.SetUint16(uint16(sum))
	c.tickCycle()
}

// addSPSigned computes SP plus a signed 8-bit immediate, setting flags
// from the unsigned low-byte addition as real hardware does, and is
// shared by ADD SP,r8 and LD HL,SP+r8.
func (c *CPU) addSPSigned() uint16 {
	e := c.readOperand()
	se := int8(e)
	sp := c.SP
	result := uint16(int32(sp) + int32(se))
	c.setFlags(false, false, (sp&0xF)+uint16(e&0xF) > 0xF, (sp&0xFF)+uint16(e) > 0xFF)
	c.tickCycle()
	return result
}

// aluOps is indexed by the 3-bit operation field of 0x80-0xBF and
// 0xC6-0xFE: ADD, ADC, SUB, SBC, AND, XOR, OR, CP in that order.
var aluOps = [8]struct {
	name string
	fn   func(c *CPU, n uint8)
}{
	{"ADD A,", func(c *CPU, n uint8) { c.add(n, false) }},
	{"ADC A,", func(c *CPU, n uint8) { c.add(n, true) }},
	{"SUB", func(c *CPU, n uint8) { c.sub(n, false) }},
	{"SBC A,", func(c *CPU, n uint8) { c.sub(n, true) }},
	{"AND", func(c *CPU, n uint8) { c.and(n) }},
	{"XOR", func(c *CPU, n uint8) { c.xor(n) }},
	{"OR", func(c *CPU, n uint8) { c.or(n) }},
	{"CP", func(c *CPU, n uint8) { c.compare(n) }},
}

func init() {
	// 0x80-0xBF: ALU op against each of B,C,D,E,H,L,(HL),A.
	for op := uint8(0); op < 8; op++ {
		for reg := uint8(0); reg < 8; reg++ {
			opcode := 0x80 + op*8 + reg
			op, reg := op, reg
			name := fmt.Sprintf("%s %s", aluOps[op].name, registerNames[reg])
			if reg == 6 {
				DefineInstruction(opcode, name, func(c *CPU) {
					aluOps[op].fn(c, c.readByte(c.HL.Uint16()))
				})
				continue
			}
			DefineInstruction(opcode, name, func(c *CPU) {
				aluOps[op].fn(c, *c.registerIndex(reg))
			})
		}
	}

	// 0xC6,0xCE,...,0xFE: ALU op against an 8-bit immediate.
	for op := uint8(0); op < 8; op++ {
		opcode := 0xC6 + op*8
		op := op
		DefineInstruction(opcode, fmt.Sprintf("%s d8", aluOps[op].name), func(c *CPU) {
			aluOps[op].fn(c, c.readOperand())
		})
	}

	// 0x04,0x0C,...: INC r8; 0x05,0x0D,...: DEC r8 (registers only; (HL)
	// is handled separately below since it needs a bus round-trip).
	for reg := uint8(0); reg < 8; reg++ {
		if reg == 6 {
			continue
		}
		reg := reg
		DefineInstruction(0x04+reg*8, fmt.Sprintf("INC %s", registerNames[reg]), func(c *CPU) {
			p := c.registerIndex(reg)
			*p = c.increment(*p)
		})
		DefineInstruction(0x05+reg*8, fmt.Sprintf("DEC %s", registerNames[reg]), func(c *CPU) {
			p := c.registerIndex(reg)
			*p = c.decrement(*p)
		})
	}
	DefineInstruction(0x34, "INC (HL)", func(c *CPU) {
		c.writeByte(c.HL.Uint16(), c.increment(c.readByte(c.HL.Uint16())))
	})
	DefineInstruction(0x35, "DEC (HL)", func(c *CPU) {
		c.writeByte(c.HL.Uint16(), c.decrement(c.readByte(c.HL.Uint16())))
	})

	DefineInstruction(0x03, "INC BC", func(c *CPU) { c.BC.SetUint16(c.BC.Uint16() + 1); c.tickCycle() })
	DefineInstruction(0x0B, "DEC BC", func(c *CPU) { c.BC.SetUint16(c.BC.Uint16() - 1); c.tickCycle() })
	DefineInstruction(0x13, "INC DE", func(c *CPU) { c.DE.SetUint16(c.DE.Uint16() + 1); c.tickCycle() })
	DefineInstruction(0x1B, "DEC DE", func(c *CPU) { c.DE.SetUint16(c.DE.Uint16() - 1); c.tickCycle() })
	DefineInstruction(0x23, "INC HL", func(c *CPU) { c.HL.SetUint16(c.HL.Uint16() + 1); c.tickCycle() })
	DefineInstruction(0x2B, "DEC HL", func(c *CPU) { c.HL.SetUint16(c.HL.Uint16() - 1); c.tickCycle() })
	DefineInstruction(0x33, "INC SP", func(c *CPU) { c.SP++; c.tickCycle() })
	DefineInstruction(0x3B, "DEC SP", func(c *CPU) { c.SP--; c.tickCycle() })

	DefineInstruction(0x09, "ADD HL, BC", func(c *CPU) { c.addHLRR(c.BC) })
	DefineInstruction(0x19, "ADD HL, DE", func(c *CPU) { c.addHLRR(c.DE) })
	DefineInstruction(0x29, "ADD HL, HL", func(c *CPU) { c.addHLRR(c.HL) })
	DefineInstruction(0x39, "ADD HL, SP", func(c *CPU) {
		hl, sp := c.HL.Uint16(), c.SP
		sum := uint32(hl) + uint32(sp)
		c.flag(FlagSubtract, false)
		c.flag(FlagHalfCarry, (hl&0xFFF)+(sp&0xFFF) > 0xFFF)
		c.flag(FlagCarry, sum > 0xFFFF)
		c.HL.SetUint16(uint16(sum))
		c.tickCycle()
	})
	DefineInstruction(0xE8, "ADD SP, r8", func(c *CPU) {
		c.SP = c.addSPSigned()
		c.tickCycle()
	})
}
