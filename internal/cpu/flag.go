package cpu

import "github.com/slongfield/wolfwig/pkg/bits"

// clearFlag clears a flag in F.
func (c *CPU) clearFlag(flag Flag) {
	c.F = bits.Clear(c.F, flag)
}

// setFlag sets a flag in F.
func (c *CPU) setFlag(flag Flag) {
	c.F = bits.Set(c.F, flag)
}

// flag sets or clears a flag in F depending on set.
func (c *CPU) flag(flag Flag, set bool) {
	if set {
		c.setFlag(flag)
	} else {
		c.clearFlag(flag)
	}
}

// isFlagSet reports whether a flag is set in F.
func (c *CPU) isFlagSet(flag Flag) bool {
	return bits.Test(c.F, flag)
}

// setFlags sets all four flags at once, in Z, N, H, C order. This is the
// primary way opcode handlers update F, keeping the "which flags does this
// instruction touch" logic local to the instruction rather than scattered
// across individual set/clear calls.
func (c *CPU) setFlags(z, n, h, carry bool) {
	c.flag(FlagZero, z)
	c.flag(FlagSubtract, n)
	c.flag(FlagHalfCarry, h)
	c.flag(FlagCarry, carry)
}

// shouldZeroFlag sets FlagZero according to value, leaving the others
// untouched. Used by DAA, which manages H and C itself.
func (c *CPU) shouldZeroFlag(value uint8) {
	c.flag(FlagZero, value == 0)
}
