package cpu

// Instruction is one entry of the opcode table: a name for debugging
// and disassembly, and the function that executes it.
type Instruction struct {
	name string
	fn   func(c *CPU)
}

var instructionSet [256]Instruction
var instructionSetCB [256]Instruction

// DefineInstruction registers fn as opcode's handler in the base table.
func DefineInstruction(opcode uint8, name string, fn func(c *CPU)) {
	instructionSet[opcode] = Instruction{name: name, fn: fn}
}

// DefineInstructionCB registers fn as opcode's handler in the
// 0xCB-prefixed table.
func DefineInstructionCB(opcode uint8, name string, fn func(c *CPU)) {
	instructionSetCB[opcode] = Instruction{name: name, fn: fn}
}

// disallowedOpcodes are the eleven base-table byte values the LR35902
// never decodes as anything; left unregistered, runInstruction reports
// them as an IllegalOpcodeError.
var disallowedOpcodes = []uint8{
	0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD,
}

func init() {
	DefineInstruction(0x00, "NOP", func(c *CPU) {})

	DefineInstruction(0x10, "STOP", func(c *CPU) {
		c.readOperand() // STOP is a 2-byte opcode; treated as a NOP on DMG
	})

	DefineInstruction(0x27, "DAA", func(c *CPU) {
		if !c.isFlagSet(FlagSubtract) {
			if c.isFlagSet(FlagCarry) || c.A > 0x99 {
				c.A += 0x60
				c.setFlag(FlagCarry)
			}
			if c.isFlagSet(FlagHalfCarry) || c.A&0xF > 0x9 {
				c.A += 0x06
				c.clearFlag(FlagHalfCarry)
			}
		} else if c.isFlagSet(FlagCarry) && c.isFlagSet(FlagHalfCarry) {
			c.A += 0x9A
			c.clearFlag(FlagHalfCarry)
		} else if c.isFlagSet(FlagCarry) {
			c.A += 0xA0
		} else if c.isFlagSet(FlagHalfCarry) {
			c.A += 0xFA
			c.clearFlag(FlagHalfCarry)
		}
		c.shouldZeroFlag(c.A)
	})

	DefineInstruction(0x2F, "CPL", func(c *CPU) {
		c.A = 0xFF ^ c.A
		c.setFlag(FlagSubtract)
		c.setFlag(FlagHalfCarry)
	})

	DefineInstruction(0x37, "SCF", func(c *CPU) {
		c.setFlag(FlagCarry)
		c.clearFlag(FlagSubtract)
		c.clearFlag(FlagHalfCarry)
	})

	DefineInstruction(0x3F, "CCF", func(c *CPU) {
		c.flag(FlagCarry, !c.isFlagSet(FlagCarry))
		c.clearFlag(FlagSubtract)
		c.clearFlag(FlagHalfCarry)
	})

	DefineInstruction(0x76, "HALT", func(c *CPU) {
		switch {
		case c.irq.IME:
			c.mode = ModeHalt
		case c.irq.HasPending():
			c.mode = ModeHaltBug
		default:
			c.mode = ModeHaltDI
		}
	})

	DefineInstruction(0xF3, "DI", func(c *CPU) { c.irq.IME = false })
	DefineInstruction(0xFB, "EI", func(c *CPU) { c.mode = ModeEnableIME })

	for _, opcode := range disallowedOpcodes {
		instructionSet[opcode] = Instruction{name: "disallowed"}
	}
}
