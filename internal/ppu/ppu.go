// Package ppu implements the Game Boy's picture processing unit: the
// scanline state machine that drives LCDC/STAT/LY timing and interrupts,
// and the "simplest correct" renderer that draws a full scanline's worth
// of background, window and sprite pixels at the mode-2/mode-3 boundary
// rather than modeling a per-dot pixel FIFO (see DESIGN.md).
package ppu

import (
	"github.com/slongfield/wolfwig/internal/interrupts"
	"github.com/slongfield/wolfwig/pkg/bits"
)

// ScreenWidth and ScreenHeight are the visible framebuffer dimensions.
const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// Mode identifies one of the PPU's four scanline phases.
type Mode uint8

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeOAM    Mode = 2
	ModeVRAM   Mode = 3
)

const (
	dotsOAM     = 80
	dotsVRAM    = 252 // OAM+VRAM end boundary
	dotsPerLine = 456
	lastLine    = 153
)

// LCDC bits.
const (
	lcdcBGEnable       = 0
	lcdcObjEnable      = 1
	lcdcObjSize        = 2
	lcdcBGTileMap      = 3
	lcdcTileData       = 4
	lcdcWindowEnable   = 5
	lcdcWindowTileMap  = 6
	lcdcLCDEnable      = 7
)

// STAT bits.
const (
	statHBlankInt = 3
	statVBlankInt = 4
	statOAMInt    = 5
	statLYCInt    = 6
)

// Frame is one finished picture: 160x144 two-bit color indices, indexed
// [y][x].
type Frame [ScreenHeight][ScreenWidth]uint8

// PPU is the picture processing unit.
type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc, stat         uint8
	scy, scx           uint8
	ly, lyc            uint8
	bgp, obp0, obp1    uint8
	wy, wx             uint8

	mode Mode
	dot  int

	windowLine  uint8
	windowDrawn bool // did the window draw on the current line

	statLine bool // internal STAT interrupt line, for edge detection

	buffer    Frame // the frame currently being drawn, line by line
	completed Frame // the last fully-drawn frame, copied at LY 143->144
	frameDone bool  // set on LY wrap 153->0; driver consumes with TakeFrame

	irq *interrupts.Controller
}

// New returns a new PPU with the LCD enabled and starting at LY=0, mode 2,
// dot 0 (the post-boot-ROM canonical state).
func New(irq *interrupts.Controller) *PPU {
	return &PPU{irq: irq, lcdc: 0x91, bgp: 0xFC, mode: ModeOAM}
}

// Tick advances the PPU by clocks clock cycles (4 per CPU machine cycle).
func (p *PPU) Tick(clocks int) {
	if !bits.Test(p.lcdc, lcdcLCDEnable) {
		return
	}
	for i := 0; i < clocks; i++ {
		p.tickOne()
	}
}

func (p *PPU) tickOne() {
	p.dot++
	switch p.mode {
	case ModeOAM:
		if p.dot == dotsOAM {
			p.mode = ModeVRAM
			p.renderLine()
			p.updateSTATLine()
		}
	case ModeVRAM:
		if p.dot == dotsVRAM {
			p.mode = ModeHBlank
			p.updateSTATLine()
		}
	case ModeHBlank:
		if p.dot == dotsPerLine {
			p.dot = 0
			p.endOfLine()
		}
	case ModeVBlank:
		if p.dot == dotsPerLine {
			p.dot = 0
			p.endOfVBlankLine()
		}
	}
}

// endOfLine is called when a visible (0-143) scanline's HBlank finishes.
func (p *PPU) endOfLine() {
	p.ly++
	if p.ly == ScreenHeight {
		p.completed = p.buffer
		p.mode = ModeVBlank
		p.irq.Request(interrupts.VBlankFlag)
	} else {
		p.mode = ModeOAM
	}
	p.updateSTATLine()
}

// endOfVBlankLine is called when one of the 10 VBlank scanlines finishes.
func (p *PPU) endOfVBlankLine() {
	p.ly++
	if p.ly > lastLine {
		p.ly = 0
		p.mode = ModeOAM
		p.windowLine = 0
		p.frameDone = true
	}
	p.updateSTATLine()
}

// HasFrame reports whether a new completed frame is waiting to be taken.
func (p *PPU) HasFrame() bool { return p.frameDone }

// TakeFrame clears the pending-frame flag and returns the last completed
// frame. The returned Frame is a value copy; mutating it has no effect on
// the PPU.
func (p *PPU) TakeFrame() Frame {
	p.frameDone = false
	return p.completed
}

// Mode returns the PPU's current scanline phase.
func (p *PPU) Mode() Mode { return p.mode }

// LY returns the current scanline.
func (p *PPU) LY() uint8 { return p.ly }

// updateSTATLine recomputes STAT's internal interrupt line and requests
// an LCD interrupt on a rising edge only, per §4.7.
func (p *PPU) updateSTATLine() {
	line := (bits.Test(p.stat, statLYCInt) && p.ly == p.lyc) ||
		(bits.Test(p.stat, statOAMInt) && p.mode == ModeOAM) ||
		(bits.Test(p.stat, statVBlankInt) && p.mode == ModeVBlank) ||
		(bits.Test(p.stat, statHBlankInt) && p.mode == ModeHBlank)
	if line && !p.statLine {
		p.irq.Request(interrupts.LCDFlag)
	}
	p.statLine = line
}

// vramLocked reports whether the CPU's view of VRAM is currently locked
// out (PPU mode 3, LCD on).
func (p *PPU) vramLocked() bool {
	return bits.Test(p.lcdc, lcdcLCDEnable) && p.mode == ModeVRAM
}

// oamLocked reports whether the CPU's view of OAM is currently locked out
// (PPU modes 2 or 3, LCD on).
func (p *PPU) oamLocked() bool {
	return bits.Test(p.lcdc, lcdcLCDEnable) && (p.mode == ModeOAM || p.mode == ModeVRAM)
}

// ReadVRAM returns the byte at offset (0x0000-0x1FFF, relative to 0x8000),
// or 0xFF if VRAM is currently locked (§3, §7 PeripheralWarning).
func (p *PPU) ReadVRAM(offset uint16) uint8 {
	if p.vramLocked() {
		return 0xFF
	}
	return p.vram[offset]
}

// WriteVRAM writes offset, silently dropping the write if VRAM is locked.
func (p *PPU) WriteVRAM(offset uint16, value uint8) {
	if p.vramLocked() {
		return
	}
	p.vram[offset] = value
}

// ReadOAM returns the byte at offset (0x00-0x9F, relative to 0xFE00), or
// 0xFF if OAM is currently locked.
func (p *PPU) ReadOAM(offset uint16) uint8 {
	if p.oamLocked() {
		return 0xFF
	}
	return p.oam[offset]
}

// WriteOAM writes offset, silently dropping the write if OAM is locked.
func (p *PPU) WriteOAM(offset uint16, value uint8) {
	if p.oamLocked() {
		return
	}
	p.oam[offset] = value
}

// WriteOAMRaw writes offset unconditionally, bypassing the lock check.
// Used by OAM DMA, which writes directly into OAM outside of the normal
// CPU bus path.
func (p *PPU) WriteOAMRaw(offset uint16, value uint8) {
	p.oam[offset] = value
}

// ReadRegister reads one of the PPU's memory-mapped registers
// (0xFF40-0xFF4B, excluding 0xFF46 which the bus owns for OAM DMA).
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		return p.stat | 0x80 | uint8(p.mode)&0x03 | coincidenceBit(p.ly, p.lyc)
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	}
	return 0xFF
}

func coincidenceBit(ly, lyc uint8) uint8 {
	if ly == lyc {
		return 1 << 2
	}
	return 0
}

// WriteRegister writes one of the PPU's memory-mapped registers.
func (p *PPU) WriteRegister(addr uint16, value uint8) {
	switch addr {
	case 0xFF40:
		wasEnabled := bits.Test(p.lcdc, lcdcLCDEnable)
		p.lcdc = value
		if wasEnabled && !bits.Test(p.lcdc, lcdcLCDEnable) {
			p.ly = 0
			p.dot = 0
			p.mode = ModeHBlank
		} else if !wasEnabled && bits.Test(p.lcdc, lcdcLCDEnable) {
			p.ly = 0
			p.dot = 0
			p.mode = ModeOAM
		}
	case 0xFF41:
		p.stat = value & 0x78
		p.updateSTATLine()
	case 0xFF42:
		p.scy = value
	case 0xFF43:
		p.scx = value
	case 0xFF44:
		// LY is read-only; hardware ignores writes.
	case 0xFF45:
		p.lyc = value
		p.updateSTATLine()
	case 0xFF47:
		p.bgp = value
	case 0xFF48:
		p.obp0 = value
	case 0xFF49:
		p.obp1 = value
	case 0xFF4A:
		p.wy = value
	case 0xFF4B:
		p.wx = value
	}
}
