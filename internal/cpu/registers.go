package cpu

// Register holds an 8-bit CPU register value.
type Register = uint8

// RegisterPair is a view over two Register fields that lets 16-bit code
// (PUSH/POP, 16-bit loads, INC/DEC rr, ADD HL,rr) treat them as a single
// 16-bit value while 8-bit code keeps operating on High/Low directly. The
// pair holds pointers into the owning Registers value rather than a copy,
// so the two views can never drift apart.
type RegisterPair struct {
	High *Register
	Low  *Register
}

// Uint16 returns the pair's value as a single 16-bit word, high byte first.
func (r *RegisterPair) Uint16() uint16 {
	return uint16(*r.High)<<8 | uint16(*r.Low)
}

// SetUint16 sets the pair from a 16-bit word, high byte first.
func (r *RegisterPair) SetUint16(value uint16) {
	*r.High = uint8(value >> 8)
	*r.Low = uint8(value)
}

// Flag identifies one of the four flag bits held in F.
type Flag = uint8

const (
	// FlagZero (Z, bit 7) is set when the result of an operation is zero.
	FlagZero Flag = 7
	// FlagSubtract (N, bit 6) is set after a subtraction.
	FlagSubtract Flag = 6
	// FlagHalfCarry (H, bit 5) is set on a carry out of bit 3.
	FlagHalfCarry Flag = 5
	// FlagCarry (C, bit 4) is set on a carry out of bit 7 (or bit 15 for
	// 16-bit operations).
	FlagCarry Flag = 4
)

// Registers holds the LR35902's architectural register file. The low
// nibble of F is always zero; every flag-setting helper in flag.go
// maintains that invariant so AF push/pop preserves byte identity.
type Registers struct {
	A, F Register
	B, C Register
	D, E Register
	H, L Register

	AF, BC, DE, HL *RegisterPair
}

// init wires the RegisterPair views to this Registers value's own fields.
// Callers must invoke it on the Registers value's final address (e.g. from
// a containing struct's constructor) since the pairs hold pointers into
// it; copying a Registers value after init invalidates the pairs.
func (r *Registers) init() {
	r.AF = &RegisterPair{&r.A, &r.F}
	r.BC = &RegisterPair{&r.B, &r.C}
	r.DE = &RegisterPair{&r.D, &r.E}
	r.HL = &RegisterPair{&r.H, &r.L}
}
