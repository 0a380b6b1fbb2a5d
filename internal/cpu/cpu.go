// Package cpu implements the Sharp LR35902 instruction set: register
// file, fetch/decode/execute loop, interrupt dispatch and the HALT bug,
// built as a 256-entry base opcode table plus a 256-entry 0xCB-prefixed
// table, each populated by per-file init() functions the way the
// reference emulator organizes its own instruction set.
package cpu

import (
	"fmt"

	"github.com/slongfield/wolfwig/internal/interrupts"
	"github.com/slongfield/wolfwig/internal/ppu"
	"github.com/slongfield/wolfwig/internal/timer"
)

// Mode tracks the CPU's execution mode outside of normal fetch/decode,
// covering HALT, the HALT bug and the one-instruction EI delay. STOP is
// treated as a two-byte NOP on DMG (§4.1) and never leaves ModeNormal.
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeHalt
	ModeHaltDI
	ModeHaltBug
	ModeEnableIME
)

// Bus is the memory-mapped address space the CPU executes against.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// IllegalOpcodeError reports execution of one of the eleven undefined
// LR35902 opcodes. Real hardware locks up when this happens; so does
// this CPU, via Halted/Err, leaving the driver to surface a fatal
// machine state instead of silently continuing.
type IllegalOpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("cpu: illegal opcode 0x%02X at 0x%04X", e.Opcode, e.PC)
}

// CPU is the Sharp LR35902 core.
type CPU struct {
	Registers
	PC, SP uint16

	bus    Bus
	irq    *interrupts.Controller
	timer  *timer.Controller
	ppu    *ppu.PPU

	mode Mode
	err  error

	ticks int
}

// NewCPU returns a CPU wired to bus for memory access and to irq/tmr/p
// for per-cycle ticking, with registers zeroed and PC/SP left at zero;
// the caller (the driver) sets the correct post-boot-ROM or
// direct-entry-at-0x0100 state before the first Step.
func NewCPU(bus Bus, irq *interrupts.Controller, tmr *timer.Controller, p *ppu.PPU) *CPU {
	c := &CPU{bus: bus, irq: irq, timer: tmr, ppu: p}
	c.Registers.init()
	return c
}

// Halted reports whether the CPU has locked up on an illegal opcode.
func (c *CPU) Halted() bool { return c.err != nil }

// Err returns the error that halted the CPU, or nil.
func (c *CPU) Err() error { return c.err }

// Step executes one instruction (or one halted tick) and returns the
// number of clock cycles it took.
func (c *CPU) Step() int {
	if c.err != nil {
		return 0
	}
	c.ticks = 0

	var wake bool
	switch c.mode {
	case ModeNormal:
		c.runInstruction(c.fetch())
		wake = c.irq.IME && c.irq.HasPending()
	case ModeHalt:
		c.tickCycle()
		wake = c.irq.HasPending()
	case ModeHaltDI:
		c.tickCycle()
		if c.irq.HasPending() {
			c.mode = ModeNormal
		}
	case ModeEnableIME:
		c.irq.IME = true
		c.mode = ModeNormal
		c.runInstruction(c.fetch())
		wake = c.irq.IME && c.irq.HasPending()
	case ModeHaltBug:
		op := c.fetch()
		c.PC--
		c.runInstruction(op)
		c.mode = ModeNormal
		wake = c.irq.IME && c.irq.HasPending()
	}

	if wake {
		c.dispatchInterrupt()
	}
	return c.ticks
}

// tick advances every cycle-driven peripheral by one clock cycle.
func (c *CPU) tick() {
	c.timer.Tick(1)
	c.ppu.Tick(1)
	c.ticks++
}

// tickCycle advances by one machine cycle (4 clock cycles), the unit
// every bus access and most instruction steps cost.
func (c *CPU) tickCycle() {
	c.timer.Tick(4)
	c.ppu.Tick(4)
	c.ticks += 4
}

// fetch reads the byte at PC, advances PC, and costs one machine cycle.
func (c *CPU) fetch() uint8 {
	c.tickCycle()
	v := c.bus.Read(c.PC)
	c.PC++
	return v
}

// readOperand is fetch under another name, for instructions that read
// immediate operands rather than the opcode itself.
func (c *CPU) readOperand() uint8 {
	return c.fetch()
}

// readByte reads addr off the bus, costing one machine cycle.
func (c *CPU) readByte(addr uint16) uint8 {
	c.tickCycle()
	return c.bus.Read(addr)
}

// writeByte writes value to addr, costing one machine cycle.
func (c *CPU) writeByte(addr uint16, value uint8) {
	c.tickCycle()
	c.bus.Write(addr, value)
}

// runInstruction decodes and executes opcode, including a 0xCB-prefixed
// lookup into the second table when opcode is the prefix byte itself.
func (c *CPU) runInstruction(opcode uint8) {
	var ins Instruction
	if opcode == 0xCB {
		ins = instructionSetCB[c.fetch()]
	} else {
		ins = instructionSet[opcode]
	}
	if ins.fn == nil {
		c.err = &IllegalOpcodeError{Opcode: opcode, PC: c.PC - 1}
		return
	}
	ins.fn(c)
}

// pushStack pushes a 16-bit value onto the stack, high byte first, each
// byte costing one machine cycle.
func (c *CPU) pushStack(value uint16) {
	c.SP--
	c.writeByte(c.SP, uint8(value>>8))
	c.SP--
	c.writeByte(c.SP, uint8(value))
}

// popStack pops a 16-bit value off the stack, low byte first.
func (c *CPU) popStack() uint16 {
	low := uint16(c.readByte(c.SP))
	c.SP++
	high := uint16(c.readByte(c.SP))
	c.SP++
	return high<<8 | low
}

// dispatchInterrupt services the highest-priority pending, enabled
// interrupt if IME is set, and always returns the CPU to ModeNormal; this
// is the mechanism by which HALT wakes up even when IME is clear.
// Costs 5 machine cycles: two internal cycles, two stack writes, and one
// more internal cycle to load the vector into PC.
func (c *CPU) dispatchInterrupt() {
	if c.irq.IME {
		c.tickCycle()
		c.tickCycle()
		c.SP--
		c.writeByte(c.SP, uint8(c.PC>>8))
		vector, _ := c.irq.Vector()
		c.SP--
		c.writeByte(c.SP, uint8(c.PC))
		c.tickCycle()
		c.PC = vector
		c.irq.IME = false
	}
	c.mode = ModeNormal
}

// registerIndex maps a 3-bit register field (as used by the 0x40-0xBF
// and CB-table opcode ranges) to the corresponding Register, skipping
// the reserved index 6 which callers special-case as (HL).
func (c *CPU) registerIndex(index uint8) *Register {
	switch index {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	case 7:
		return &c.A
	}
	panic(fmt.Sprintf("cpu: invalid register index %d", index))
}

var registerNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
