// Package joypad implements the Game Boy's button matrix and the P1
// (0xFF00) register that exposes it to the CPU.
package joypad

import (
	"github.com/slongfield/wolfwig/internal/interrupts"
	"github.com/slongfield/wolfwig/pkg/bits"
)

// Button identifies one of the eight physical buttons.
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonRight
	ButtonLeft
	ButtonUp
	ButtonDown
)

// action/direction row masks: bit position within the 8-bit state for
// each button, grouped so the low nibble of either row can be read
// straight off State.
//
//	bit: 7 6 5 4 3    2      1    0
//	     -   -  - Down Up   Left Right    (direction row, low nibble read when bit4=0)
//	     -   -  - Start Select B    A     (action row, low nibble read when bit5=0)
const (
	bitA      = 0
	bitB      = 1
	bitSelect = 2
	bitStart  = 3
	bitRight  = 4
	bitLeft   = 5
	bitUp     = 6
	bitDown   = 7
)

var buttonBit = [8]uint8{bitA, bitB, bitSelect, bitStart, bitRight, bitLeft, bitUp, bitDown}

// State is the joypad's button matrix and select latch.
//
//	Bit 5 - P15 select action buttons   (0 = select)
//	Bit 4 - P14 select direction keys   (0 = select)
//	Bit 3-0 - state of the selected row (0 = pressed), read-only
type State struct {
	// pressed holds the live state of all 8 buttons; bit set means
	// pressed. Indexed by buttonBit.
	pressed uint8
	// selector holds bits 4 and 5 of P1 as last written by the CPU.
	selector uint8

	irq *interrupts.Controller
}

// New returns a new joypad State with no buttons pressed.
func New(irq *interrupts.Controller) *State {
	return &State{irq: irq, selector: 0x30}
}

// Read returns the value of P1 (0xFF00) as the CPU would read it.
func (s *State) Read() uint8 {
	row := uint8(0x0F)
	if !bits.Test(s.selector, 4) {
		row &= ^directionNibble(s.pressed)
	}
	if !bits.Test(s.selector, 5) {
		row &= ^actionNibble(s.pressed)
	}
	return 0xC0 | s.selector | row
}

// directionNibble packs the 4 direction buttons into the low nibble
// layout the hardware reports: bit3=Down bit2=Up bit1=Left bit0=Right.
func directionNibble(pressed uint8) uint8 {
	var n uint8
	if bits.Test(pressed, bitRight) {
		n |= 1 << 0
	}
	if bits.Test(pressed, bitLeft) {
		n |= 1 << 1
	}
	if bits.Test(pressed, bitUp) {
		n |= 1 << 2
	}
	if bits.Test(pressed, bitDown) {
		n |= 1 << 3
	}
	return n
}

// actionNibble packs the 4 action buttons: bit3=Start bit2=Select bit1=B bit0=A.
func actionNibble(pressed uint8) uint8 {
	var n uint8
	if bits.Test(pressed, bitA) {
		n |= 1 << 0
	}
	if bits.Test(pressed, bitB) {
		n |= 1 << 1
	}
	if bits.Test(pressed, bitSelect) {
		n |= 1 << 2
	}
	if bits.Test(pressed, bitStart) {
		n |= 1 << 3
	}
	return n
}

// Write updates P1's selector bits (4 and 5); the rest of the register is
// read-only from the CPU's perspective.
func (s *State) Write(v uint8) {
	s.selector = v & 0x30
}

// SetButton updates the live state of a button. Only a 0->1 (not
// pressed -> pressed) transition on a row that is currently selected
// raises a Joypad interrupt, matching real hardware and avoiding the
// spurious soft-resets Tetris is sensitive to.
func (s *State) SetButton(b Button, pressed bool) {
	bit := buttonBit[b]
	was := bits.Test(s.pressed, bit)
	if pressed {
		s.pressed = bits.Set(s.pressed, bit)
	} else {
		s.pressed = bits.Clear(s.pressed, bit)
	}
	if !was && pressed && s.selects(b) {
		s.irq.Request(interrupts.JoypadFlag)
	}
}

// selects reports whether b's row is currently selected for reading.
func (s *State) selects(b Button) bool {
	switch b {
	case ButtonA, ButtonB, ButtonSelect, ButtonStart:
		return !bits.Test(s.selector, 5)
	default:
		return !bits.Test(s.selector, 4)
	}
}
