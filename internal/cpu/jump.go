package cpu

import "fmt"

// readAddress reads a little-endian 16-bit immediate (two operand
// bytes).
func (c *CPU) readAddress() uint16 {
	low := c.readOperand()
	high := c.readOperand()
	return uint16(high)<<8 | uint16(low)
}

// condition evaluates one of the four branch conditions encoded in bits
// 3-4 of a conditional jump/call/ret opcode: NZ, Z, NC, C.
func (c *CPU) condition(code uint8) bool {
	switch code {
	case 0:
		return !c.isFlagSet(FlagZero)
	case 1:
		return c.isFlagSet(FlagZero)
	case 2:
		return !c.isFlagSet(FlagCarry)
	default:
		return c.isFlagSet(FlagCarry)
	}
}

func init() {
	DefineInstruction(0xC3, "JP a16", func(c *CPU) {
		addr := c.readAddress()
		c.PC = addr
		c.tickCycle()
	})
	DefineInstruction(0xE9, "JP (HL)", func(c *CPU) { c.PC = c.HL.Uint16() })
	DefineInstruction(0x18, "JR r8", func(c *CPU) {
		offset := int8(c.readOperand())
		c.PC = uint16(int32(c.PC) + int32(offset))
		c.tickCycle()
	})
	DefineInstruction(0xCD, "CALL a16", func(c *CPU) {
		addr := c.readAddress()
		c.tickCycle()
		c.pushStack(c.PC)
		c.PC = addr
	})
	DefineInstruction(0xC9, "RET", func(c *CPU) {
		c.PC = c.popStack()
		c.tickCycle()
	})
	DefineInstruction(0xD9, "RETI", func(c *CPU) {
		c.PC = c.popStack()
		c.tickCycle()
		c.irq.IME = true
	})

	for code := uint8(0); code < 4; code++ {
		code := code
		name := [4]string{"NZ", "Z", "NC", "C"}[code]

		DefineInstruction(0xC2+code*8, fmt.Sprintf("JP %s, a16", name), func(c *CPU) {
			addr := c.readAddress()
			if c.condition(code) {
				c.PC = addr
				c.tickCycle()
			}
		})
		DefineInstruction(0x20+code*8, fmt.Sprintf("JR %s, r8", name), func(c *CPU) {
			offset := int8(c.readOperand())
			if c.condition(code) {
				c.PC = uint16(int32(c.PC) + int32(offset))
				c.tickCycle()
			}
		})
		DefineInstruction(0xC4+code*8, fmt.Sprintf("CALL %s, a16", name), func(c *CPU) {
			addr := c.readAddress()
			if c.condition(code) {
				c.tickCycle()
				c.pushStack(c.PC)
				c.PC = addr
			}
		})
		DefineInstruction(0xC0+code*8, fmt.Sprintf("RET %s", name), func(c *CPU) {
			c.tickCycle()
			if c.condition(code) {
				c.PC = c.popStack()
				c.tickCycle()
			}
		})
	}

	for i := uint8(0); i < 8; i++ {
		addr := uint16(i) * 8
		DefineInstruction(0xC7+i*8, fmt.Sprintf("RST %02Xh", addr), func(c *CPU) {
			c.tickCycle()
			c.pushStack(c.PC)
			c.PC = addr
		})
	}
}
