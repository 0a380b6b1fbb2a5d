package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slongfield/wolfwig/internal/interrupts"
)

func TestModeTimingWithinAScanline(t *testing.T) {
	irq := interrupts.New()
	p := New(irq)

	p.Tick(dotsOAM - 1)
	assert.Equal(t, ModeOAM, p.Mode())

	p.Tick(1)
	assert.Equal(t, ModeVRAM, p.Mode())

	p.Tick(dotsVRAM - dotsOAM)
	assert.Equal(t, ModeHBlank, p.Mode())

	p.Tick(dotsPerLine - dotsVRAM)
	assert.Equal(t, ModeOAM, p.Mode())
	assert.Equal(t, uint8(1), p.LY())
}

func TestVBlankEntryRequestsInterrupt(t *testing.T) {
	irq := interrupts.New()
	p := New(irq)

	p.Tick(dotsPerLine * ScreenHeight) // run through all 144 visible lines

	assert.Equal(t, ModeVBlank, p.Mode())
	assert.Equal(t, uint8(144), p.LY())
	assert.Equal(t, interrupts.VBlankFlag, irq.Flag)
}

func TestFullFrameWrapsLYAndSignalsFrameDone(t *testing.T) {
	irq := interrupts.New()
	p := New(irq)

	p.Tick(dotsPerLine * 154)

	assert.True(t, p.HasFrame())
	assert.Equal(t, uint8(0), p.LY())
	assert.Equal(t, ModeOAM, p.Mode())

	p.TakeFrame()
	assert.False(t, p.HasFrame(), "TakeFrame clears the pending flag")
}

func TestSTATInterruptFiresOnRisingEdgeOnly(t *testing.T) {
	irq := interrupts.New()
	p := New(irq)

	p.WriteRegister(0xFF41, 1<<5) // enable OAM-mode STAT interrupt; PPU starts in OAM mode
	assert.Equal(t, interrupts.LCDFlag, irq.Flag, "rising edge on the write itself")

	irq.Flag = 0
	p.WriteRegister(0xFF41, 1<<5) // still in OAM mode, line stays high: no re-request
	assert.Equal(t, uint8(0), irq.Flag)
}

func TestLCDDisableForcesLYAndModeToZero(t *testing.T) {
	irq := interrupts.New()
	p := New(irq)

	p.Tick(dotsOAM + 10) // advance into mode 3 on line 0
	p.WriteRegister(0xFF40, 0x00)

	assert.Equal(t, uint8(0), p.LY())
	assert.Equal(t, ModeHBlank, p.Mode())

	// With the LCD off, Tick is a no-op.
	p.Tick(10000)
	assert.Equal(t, uint8(0), p.LY())
}

func TestVRAMAndOAMLockDuringRestrictedModes(t *testing.T) {
	irq := interrupts.New()
	p := New(irq)

	p.WriteVRAM(0, 0x42) // mode 2 (OAM search): VRAM isn't locked
	assert.Equal(t, uint8(0x42), p.ReadVRAM(0))

	p.Tick(dotsOAM) // now mode 3 (pixel transfer): both VRAM and OAM lock
	assert.Equal(t, uint8(0xFF), p.ReadVRAM(0))
	assert.Equal(t, uint8(0xFF), p.ReadOAM(0))

	p.WriteVRAM(0, 0x99) // dropped while locked

	p.Tick(dotsVRAM - dotsOAM) // move to HBlank, where VRAM unlocks again
	assert.Equal(t, uint8(0x42), p.ReadVRAM(0))
}

func TestBlankFrameRendersAllZeroWithIdentityPalette(t *testing.T) {
	irq := interrupts.New()
	p := New(irq)

	// LCDC defaults to BG+LCD enabled with unsigned tile addressing, and
	// VRAM starts zeroed: tile map entry 0 selects tile 0, whose 16 bytes
	// are all zero, so every background pixel is raw color index 0.
	p.WriteRegister(0xFF47, 0xE4) // BGP: identity mapping

	p.Tick(dotsPerLine * 154)
	frame := p.TakeFrame()

	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			if frame[y][x] != 0 {
				t.Fatalf("pixel (%d,%d) = %d, want 0", x, y, frame[y][x])
			}
		}
	}
}
