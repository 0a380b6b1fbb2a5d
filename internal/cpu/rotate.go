package cpu

import "fmt"

// rotateLeft rotates n left by one bit, copying the old bit 7 into both
// the carry flag and the new bit 0.
//
//	RLC n
func (c *CPU) rotateLeft(n uint8) uint8 {
	carry := n&0x80 != 0
	result := n<<1 | n>>7
	c.setFlags(result == 0, false, false, carry)
	return result
}

// rotateRight rotates n right by one bit, copying the old bit 0 into
// both the carry flag and the new bit 7.
//
//	RRC n
func (c *CPU) rotateRight(n uint8) uint8 {
	carry := n&0x01 != 0
	result := n>>1 | n<<7
	c.setFlags(result == 0, false, false, carry)
	return result
}

// rotateLeftCarry rotates n left by one bit through the carry flag: the
// old carry becomes bit 0, and the old bit 7 becomes the new carry.
//
//	RL n
func (c *CPU) rotateLeftCarry(n uint8) uint8 {
	carry := n&0x80 != 0
	result := n << 1
	if c.isFlagSet(FlagCarry) {
		result |= 0x01
	}
	c.setFlags(result == 0, false, false, carry)
	return result
}

// rotateRightCarry rotates n right by one bit through the carry flag:
// the old carry becomes bit 7, and the old bit 0 becomes the new carry.
//
//	RR n
func (c *CPU) rotateRightCarry(n uint8) uint8 {
	carry := n&0x01 != 0
	result := n >> 1
	if c.isFlagSet(FlagCarry) {
		result |= 0x80
	}
	c.setFlags(result == 0, false, false, carry)
	return result
}

// shiftLeft shifts n left by one bit; bit 7 becomes the carry, bit 0 is
// zero-filled.
//
//	SLA n
func (c *CPU) shiftLeft(n uint8) uint8 {
	carry := n&0x80 != 0
	result := n << 1
	c.setFlags(result == 0, false, false, carry)
	return result
}

// shiftRightArithmetic shifts n right by one bit, preserving bit 7 (sign
// extension); bit 0 becomes the carry.
//
//	SRA n
func (c *CPU) shiftRightArithmetic(n uint8) uint8 {
	carry := n&0x01 != 0
	result := n>>1 | n&0x80
	c.setFlags(result == 0, false, false, carry)
	return result
}

// shiftRightLogical shifts n right by one bit, zero-filling bit 7; bit 0
// becomes the carry.
//
//	SRL n
func (c *CPU) shiftRightLogical(n uint8) uint8 {
	carry := n&0x01 != 0
	result := n >> 1
	c.setFlags(result == 0, false, false, carry)
	return result
}

// swap exchanges the upper and lower nibbles of n.
//
//	SWAP n
func (c *CPU) swap(n uint8) uint8 {
	result := n<<4 | n>>4
	c.setFlags(result == 0, false, false, false)
	return result
}

func init() {
	// RLCA/RRCA/RLA/RRA: like their CB RLC/RRC/RL/RR counterparts but
	// always clear Z rather than setting it from the result.
	DefineInstruction(0x07, "RLCA", func(c *CPU) {
		carry := c.A&0x80 != 0
		c.A = c.A<<1 | c.A>>7
		c.setFlags(false, false, false, carry)
	})
	DefineInstruction(0x0F, "RRCA", func(c *CPU) {
		carry := c.A&0x01 != 0
		c.A = c.A>>1 | c.A<<7
		c.setFlags(false, false, false, carry)
	})
	DefineInstruction(0x17, "RLA", func(c *CPU) {
		carry := c.A&0x80 != 0
		result := c.A << 1
		if c.isFlagSet(FlagCarry) {
			result |= 0x01
		}
		c.A = result
		c.setFlags(false, false, false, carry)
	})
	DefineInstruction(0x1F, "RRA", func(c *CPU) {
		carry := c.A&0x01 != 0
		result := c.A >> 1
		if c.isFlagSet(FlagCarry) {
			result |= 0x80
		}
		c.A = result
		c.setFlags(false, false, false, carry)
	})

	generateRotateShiftInstructionsCB()
}

// cbOps is indexed by the 3-bit operation field of the CB table's first
// four rows (0x00-0x3F): RLC, RRC, RL, RR, SLA, SRA, SWAP, SRL.
var cbOps = [8]struct {
	name string
	fn   func(c *CPU, n uint8) uint8
}{
	{"RLC", (*CPU).rotateLeft},
	{"RRC", (*CPU).rotateRight},
	{"RL", (*CPU).rotateLeftCarry},
	{"RR", (*CPU).rotateRightCarry},
	{"SLA", (*CPU).shiftLeft},
	{"SRA", (*CPU).shiftRightArithmetic},
	{"SWAP", (*CPU).swap},
	{"SRL", (*CPU).shiftRightLogical},
}

// generateRotateShiftInstructionsCB fills in CB opcodes 0x00-0x3F: each
// of the eight ops above against each of B,C,D,E,H,L,(HL),A.
func generateRotateShiftInstructionsCB() {
	for op := uint8(0); op < 8; op++ {
		for reg := uint8(0); reg < 8; reg++ {
			opcode := op*8 + reg
			op, reg := op, reg
			name := fmt.Sprintf("%s %s", cbOps[op].name, registerNames[reg])
			if reg == 6 {
				DefineInstructionCB(opcode, name, func(c *CPU) {
					c.writeByte(c.HL.Uint16(), cbOps[op].fn(c, c.readByte(c.HL.Uint16())))
				})
				continue
			}
			DefineInstructionCB(opcode, name, func(c *CPU) {
				p := c.registerIndex(reg)
				*p = cbOps[op].fn(c, *p)
			})
		}
	}
}
