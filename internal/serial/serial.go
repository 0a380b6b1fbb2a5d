// Package serial implements the Game Boy's serial port: SB (0xFF01) and
// SC (0xFF02). Only the internal-clock (master) case is modeled, and the
// transfer completes the instant it's requested rather than bit-by-bit
// over 8 machine cycles: a minimal model, sufficient to receive
// Blargg-style debug output over the wire without a live peer.
package serial

import (
	"github.com/slongfield/wolfwig/internal/interrupts"
)

// Controller is the serial port controller.
type Controller struct {
	sb uint8 // SB, 0xFF01 - serial transfer data
	sc uint8 // SC, 0xFF02 - serial transfer control

	// Device is whatever is attached to the port; defaults to an
	// unplugged cable.
	Device Device

	// OnByte, if set, is invoked with SB's value every time a transfer
	// completes. This is how the host observes the Blargg-style debug
	// character stream without needing a real peer device.
	OnByte func(byte)

	irq *interrupts.Controller
}

// New returns a new serial Controller with no device attached.
func New(irq *interrupts.Controller) *Controller {
	return &Controller{irq: irq, Device: &nullDevice{}, sc: 0x7E}
}

// Attach plugs a Device into the port.
func (c *Controller) Attach(d Device) {
	c.Device = d
}

// SB returns the serial data register.
func (c *Controller) SB() uint8 { return c.sb }

// WriteSB sets the serial data register.
func (c *Controller) WriteSB(v uint8) { c.sb = v }

// SC returns the serial control register; bits 1-6 always read back set.
func (c *Controller) SC() uint8 { return c.sc | 0x7E }

// WriteSC writes the serial control register. If both the transfer-start
// (bit 7) and internal-clock (bit 0) bits are set, the 8-bit transfer
// happens immediately: each bit of SB is shifted out to Device and
// replaced by the bit Device shifts back, then the Serial interrupt is
// requested and the start bit is cleared.
func (c *Controller) WriteSC(v uint8) {
	c.sc = v & 0x81
	if c.sc&0x81 == 0x81 {
		for i := 0; i < 8; i++ {
			outBit := c.sb&0x80 != 0
			c.Device.Receive(outBit)
			inBit := c.Device.Send()
			c.sb <<= 1
			if inBit {
				c.sb |= 1
			}
		}
		c.sc &^= 0x80
		c.irq.Request(interrupts.SerialFlag)
		if c.OnByte != nil {
			c.OnByte(c.sb)
		}
	}
}
