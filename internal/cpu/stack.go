package cpu

func init() {
	DefineInstruction(0xC1, "POP BC", func(c *CPU) { c.BC.SetUint16(c.popStack()) })
	DefineInstruction(0xD1, "POP DE", func(c *CPU) { c.DE.SetUint16(c.popStack()) })
	DefineInstruction(0xE1, "POP HL", func(c *CPU) { c.HL.SetUint16(c.popStack()) })
	DefineInstruction(0xF1, "POP AF", func(c *CPU) {
		c.AF.SetUint16(c.popStack())
		c.F &= 0xF0 // the low nibble of F is always zero
	})

	DefineInstruction(0xC5, "PUSH BC", func(c *CPU) { c.tickCycle(); c.pushStack(c.BC.Uint16()) })
	DefineInstruction(0xD5, "PUSH DE", func(c *CPU) { c.tickCycle(); c.pushStack(c.DE.Uint16()) })
	DefineInstruction(0xE5, "PUSH HL", func(c *CPU) { c.tickCycle(); c.pushStack(c.HL.Uint16()) })
	DefineInstruction(0xF5, "PUSH AF", func(c *CPU) { c.tickCycle(); c.pushStack(c.AF.Uint16()) })
}
