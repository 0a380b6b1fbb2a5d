package cpu

import "fmt"

// testBit sets Z if bit of value is clear, and unconditionally sets H
// and clears N; C is left untouched.
//
//	BIT n, r
func (c *CPU) testBit(value, bit uint8) {
	c.flag(FlagZero, value&(1<<bit) == 0)
	c.clearFlag(FlagSubtract)
	c.setFlag(FlagHalfCarry)
}

func init() {
	for bit := uint8(0); bit < 8; bit++ {
		for reg := uint8(0); reg < 8; reg++ {
			bit, reg := bit, reg

			DefineInstructionCB(0x40+bit*8+reg, fmt.Sprintf("BIT %d, %s", bit, registerNames[reg]), func(c *CPU) {
				if reg == 6 {
					c.testBit(c.readByte(c.HL.Uint16()), bit)
				} else {
					c.testBit(*c.registerIndex(reg), bit)
				}
			})

			DefineInstructionCB(0x80+bit*8+reg, fmt.Sprintf("RES %d, %s", bit, registerNames[reg]), func(c *CPU) {
				if reg == 6 {
					c.writeByte(c.HL.Uint16(), c.readByte(c.HL.Uint16())&^(1<<bit))
				} else {
					p := c.registerIndex(reg)
					*p &^= 1 << bit
				}
			})

			DefineInstructionCB(0xC0+bit*8+reg, fmt.Sprintf("SET %d, %s", bit, registerNames[reg]), func(c *CPU) {
				if reg == 6 {
					c.writeByte(c.HL.Uint16(), c.readByte(c.HL.Uint16())|1<<bit)
				} else {
					p := c.registerIndex(reg)
					*p |= 1 << bit
				}
			})
		}
	}
}
