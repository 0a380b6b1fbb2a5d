// Package mmu implements the Game Boy's memory bus: the single
// Read/Write surface the CPU sees, dispatching each address to the right
// peripheral (boot ROM, cartridge, VRAM, work RAM, OAM, I/O registers,
// high RAM) and owning the boot ROM overlay latch and OAM DMA transfer.
package mmu

import (
	"github.com/slongfield/wolfwig/internal/boot"
	"github.com/slongfield/wolfwig/internal/cartridge"
	"github.com/slongfield/wolfwig/internal/interrupts"
	"github.com/slongfield/wolfwig/internal/joypad"
	"github.com/slongfield/wolfwig/internal/ppu"
	"github.com/slongfield/wolfwig/internal/ram"
	"github.com/slongfield/wolfwig/internal/serial"
	"github.com/slongfield/wolfwig/internal/timer"
	"github.com/slongfield/wolfwig/pkg/log"
)

// Address-space region boundaries.
const (
	romEnd      = 0x8000
	vramEnd     = 0xA000
	cartRAMEnd  = 0xC000
	wramEnd     = 0xE000
	echoEnd     = 0xFE00
	oamEnd      = 0xFEA0
	unusableEnd = 0xFF00
	ioEnd       = 0xFF80
	hramEnd     = 0xFFFF
)

const dmaLength = 0xA0

// Bus wires every peripheral together behind a single byte-addressable
// 16-bit memory space.
type Bus struct {
	Boot *boot.ROM // nil if no boot ROM was supplied; kept after 0xFF50 unmaps it (see bootDisabled)
	Cart *cartridge.Cartridge

	WRAM *ram.RAM
	HRAM *ram.RAM

	PPU     *ppu.PPU
	Timer   *timer.Controller
	Joypad  *joypad.State
	Serial  *serial.Controller
	Interrupts *interrupts.Controller

	bootDisabled bool

	log log.Logger
}

// New returns a Bus with fresh work/high RAM and the given peripherals.
// bootROM may be nil, in which case execution starts directly at 0x0100
// with cart registers already in their post-boot state.
func New(cart *cartridge.Cartridge, bootROM *boot.ROM, irq *interrupts.Controller, p *ppu.PPU, t *timer.Controller, j *joypad.State, s *serial.Controller, logger log.Logger) *Bus {
	return &Bus{
		Boot:       bootROM,
		Cart:       cart,
		WRAM:       ram.New(0x2000),
		HRAM:       ram.New(0x7F),
		PPU:        p,
		Timer:      t,
		Joypad:     j,
		Serial:     s,
		Interrupts: irq,
		log:        logger,
	}
}

// Read returns the byte at addr as the CPU would see it.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x100 && b.Boot != nil && !b.bootDisabled:
		return b.Boot.Read(addr)
	case addr < romEnd:
		return b.Cart.Read(addr)
	case addr < vramEnd:
		return b.PPU.ReadVRAM(addr - 0x8000)
	case addr < cartRAMEnd:
		return b.Cart.Read(addr)
	case addr < wramEnd:
		return b.WRAM.Read(addr - 0xC000)
	case addr < echoEnd:
		return b.WRAM.Read(addr - 0xE000) // echo RAM mirrors 0xC000-0xDDFF
	case addr < oamEnd:
		return b.PPU.ReadOAM(addr - 0xFE00)
	case addr < unusableEnd:
		return 0xFF // unusable region, §3
	case addr == 0xFFFF:
		return b.Interrupts.ReadIE()
	case addr < ioEnd:
		return b.readIO(addr)
	case addr <= hramEnd:
		return b.HRAM.Read(addr - 0xFF80)
	}
	return 0xFF
}

// Write stores value at addr, dispatching to the owning peripheral and
// handling the two addresses with bus-level side effects: 0xFF46 (OAM
// DMA) and 0xFF50 (boot ROM disable).
func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	case addr < romEnd:
		b.Cart.Write(addr, value)
	case addr < vramEnd:
		b.PPU.WriteVRAM(addr-0x8000, value)
	case addr < cartRAMEnd:
		b.Cart.Write(addr, value)
	case addr < wramEnd:
		b.WRAM.Write(addr-0xC000, value)
	case addr < echoEnd:
		b.WRAM.Write(addr-0xE000, value)
	case addr < oamEnd:
		b.PPU.WriteOAM(addr-0xFE00, value)
	case addr < unusableEnd:
		// unusable region, writes ignored
	case addr == 0xFFFF:
		b.Interrupts.WriteIE(value)
	case addr < ioEnd:
		b.writeIO(addr, value)
	case addr <= hramEnd:
		b.HRAM.Write(addr-0xFF80, value)
	}
}

// readIO dispatches the 0xFF00-0xFF7F I/O register window to the
// peripheral that owns each address.
func (b *Bus) readIO(addr uint16) uint8 {
	switch {
	case addr == 0xFF00:
		return b.Joypad.Read()
	case addr == 0xFF01:
		return b.Serial.SB()
	case addr == 0xFF02:
		return b.Serial.SC()
	case addr == 0xFF04:
		return b.Timer.DIV()
	case addr == 0xFF05:
		return b.Timer.TIMA()
	case addr == 0xFF06:
		return b.Timer.TMA()
	case addr == 0xFF07:
		return b.Timer.TAC()
	case addr == 0xFF0F:
		return b.Interrupts.ReadIF()
	case addr >= 0xFF40 && addr <= 0xFF4B:
		return b.PPU.ReadRegister(addr)
	}
	return 0xFF
}

// writeIO dispatches an I/O register write, including the two addresses
// with bus-level behavior (DMA start, boot ROM unmap).
func (b *Bus) writeIO(addr uint16, value uint8) {
	switch {
	case addr == 0xFF00:
		b.Joypad.Write(value)
	case addr == 0xFF01:
		b.Serial.WriteSB(value)
	case addr == 0xFF02:
		b.Serial.WriteSC(value)
	case addr == 0xFF04:
		b.Timer.WriteDIV()
	case addr == 0xFF05:
		b.Timer.WriteTIMA(value)
	case addr == 0xFF06:
		b.Timer.WriteTMA(value)
	case addr == 0xFF07:
		b.Timer.WriteTAC(value)
	case addr == 0xFF0F:
		b.Interrupts.WriteIF(value)
	case addr == 0xFF46:
		b.transferDMA(value)
	case addr == 0xFF50:
		if value != 0 {
			b.bootDisabled = true
		}
	case addr >= 0xFF40 && addr <= 0xFF4B:
		b.PPU.WriteRegister(addr, value)
	}
}

// transferDMA copies the 160-byte OAM table from source*0x100 into OAM,
// one byte per machine cycle, ticking the timer and PPU alongside each
// copy so the 640 clocks the transfer actually takes on hardware are
// reflected in their state by the time it completes. The CPU itself is
// blocked for the duration by construction: this call runs to
// completion inside the bus write that triggered it, so nothing else
// touches the bus until it returns.
func (b *Bus) transferDMA(source uint8) {
	base := uint16(source) << 8
	for i := uint16(0); i < dmaLength; i++ {
		b.PPU.WriteOAMRaw(i, b.Read(base+i))
		b.Timer.Tick(4)
		b.PPU.Tick(4)
	}
}
