package ppu

import (
	"sort"

	"github.com/slongfield/wolfwig/pkg/bits"
)

// renderLine draws the full 160-pixel row for the current LY into
// p.buffer, in one shot at the mode-2/mode-3 boundary. This is the
// spec's documented simplification: a fully cycle-accurate PPU would
// interleave fetcher/FIFO work with every dot, so mid-scanline scroll or
// palette writes will not be reflected (see DESIGN.md).
func (p *PPU) renderLine() {
	y := int(p.ly)
	var bgRaw [ScreenWidth]uint8

	if bits.Test(p.lcdc, lcdcBGEnable) {
		p.renderBackground(y, &bgRaw)
	}
	if bits.Test(p.lcdc, lcdcWindowEnable) && p.wy <= p.ly {
		p.renderWindow(y, &bgRaw)
	}
	if bits.Test(p.lcdc, lcdcObjEnable) {
		p.renderSprites(y, &bgRaw)
	}
}

// renderBackground fills buffer[y] from the BG tile map and records each
// pixel's pre-palette color index into bgRaw, for use by sprite priority.
func (p *PPU) renderBackground(y int, bgRaw *[ScreenWidth]uint8) {
	mapBase := tileMapBase(bits.Test(p.lcdc, lcdcBGTileMap))
	unsignedData := bits.Test(p.lcdc, lcdcTileData)
	bgY := uint8(y) + p.scy

	for x := 0; x < ScreenWidth; x++ {
		bgX := uint8(x) + p.scx
		tileIndex := p.vram[mapBase+uint16(bgY/8)*32+uint16(bgX/8)]
		idx := p.tilePixel(unsignedData, tileIndex, int(bgY%8), int(bgX%8))
		bgRaw[x] = idx
		p.buffer[y][x] = paletteLookup(p.bgp, idx)
	}
}

// renderWindow overlays the window on top of the background for rows
// where it is visible, advancing the internal window-line counter only
// on lines where it actually drew.
func (p *PPU) renderWindow(y int, bgRaw *[ScreenWidth]uint8) {
	mapBase := tileMapBase(bits.Test(p.lcdc, lcdcWindowTileMap))
	unsignedData := bits.Test(p.lcdc, lcdcTileData)

	drew := false
	for x := 0; x < ScreenWidth; x++ {
		if int(x)+7 < int(p.wx) {
			continue
		}
		wx := uint8(x+7) - p.wx
		tileIndex := p.vram[mapBase+uint16(p.windowLine/8)*32+uint16(wx/8)]
		idx := p.tilePixel(unsignedData, tileIndex, int(p.windowLine%8), int(wx%8))
		bgRaw[x] = idx
		p.buffer[y][x] = paletteLookup(p.bgp, idx)
		drew = true
	}
	if drew {
		p.windowLine++
	}
}

// sprite is one OAM entry, pre-filtered and ready to composite.
type sprite struct {
	y, x  uint8
	tile  uint8
	attrs uint8
	index int // original OAM index, for same-X tie-breaking
}

// renderSprites composites up to 10 sprites visible on row y onto
// buffer[y], honoring X-then-index priority and the BG-priority bit.
func (p *PPU) renderSprites(y int, bgRaw *[ScreenWidth]uint8) {
	height := 8
	if bits.Test(p.lcdc, lcdcObjSize) {
		height = 16
	}

	var visible []sprite
	for i := 0; i < 40 && len(visible) < 10; i++ {
		base := i * 4
		spriteY := int(p.oam[base]) - 16
		if y < spriteY || y >= spriteY+height {
			continue
		}
		visible = append(visible, sprite{
			y:     p.oam[base],
			x:     p.oam[base+1],
			tile:  p.oam[base+2],
			attrs: p.oam[base+3],
			index: i,
		})
	}
	sort.SliceStable(visible, func(a, b int) bool {
		if visible[a].x != visible[b].x {
			return visible[a].x < visible[b].x
		}
		return visible[a].index < visible[b].index
	})

	for x := 0; x < ScreenWidth; x++ {
		for _, s := range visible {
			screenX := int(s.x) - 8
			if x < screenX || x >= screenX+8 {
				continue
			}
			row := y - (int(s.y) - 16)
			col := x - screenX
			if bits.Test(s.attrs, 6) { // Y flip
				row = height - 1 - row
			}
			if bits.Test(s.attrs, 5) { // X flip
				col = 7 - col
			}
			tile := s.tile
			if height == 16 {
				tile &^= 0x01
			}
			idx := p.tilePixel(true, tile, row, col)
			if idx == 0 {
				continue // color 0 is transparent
			}
			if bits.Test(s.attrs, 7) && bgRaw[x] != 0 {
				continue // sprite behind non-zero BG pixel
			}
			pal := p.obp0
			if bits.Test(s.attrs, 4) {
				pal = p.obp1
			}
			p.buffer[y][x] = paletteLookup(pal, idx)
			break // highest-priority sprite for this pixel already drawn
		}
	}
}

// tileMapBase returns the VRAM-relative base address (0x0000 = 0x8000)
// of the 32x32 tile map selected by a LCDC map-select bit.
func tileMapBase(high bool) uint16 {
	if high {
		return 0x1C00 // 0x9C00
	}
	return 0x1800 // 0x9800
}

// tilePixel returns the 2-bit color index of pixel (col, row) within the
// tile identified by tileIndex, using unsigned (0x8000-based) or signed
// (0x9000-based, ±128 tiles) addressing.
func (p *PPU) tilePixel(unsigned bool, tileIndex uint8, row, col int) uint8 {
	var addr uint16
	if unsigned {
		addr = uint16(tileIndex) * 16
	} else {
		addr = uint16(0x1000 + int(int8(tileIndex))*16)
	}
	addr += uint16(row) * 2
	lo := (p.vram[addr] >> (7 - col)) & 1
	hi := (p.vram[addr+1] >> (7 - col)) & 1
	return hi<<1 | lo
}

// paletteLookup maps a raw 2-bit tile color index through a palette
// register (BGP/OBP0/OBP1) to the final 2-bit color index.
func paletteLookup(palette, index uint8) uint8 {
	return (palette >> (index * 2)) & 0x03
}
