package cartridge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildROM returns a minimal rom of the given size with a valid header:
// title, cartridge type, ROM/RAM size codes, and a correct checksum.
func buildROM(size int, cartType Type, romSizeCode, ramSizeCode uint8, title string) []byte {
	rom := make([]byte, size)
	copy(rom[0x134:0x144], title)
	rom[0x147] = uint8(cartType)
	rom[0x148] = romSizeCode
	rom[0x149] = ramSizeCode

	var sum uint8
	for _, b := range rom[0x134:0x14D] {
		sum -= b + 1
	}
	rom[0x14D] = sum
	return rom
}

func TestNewRejectsUndersizedImage(t *testing.T) {
	_, err := New([]byte{0x00, 0x01})
	require.Error(t, err)
}

func TestNewRejectsBadChecksum(t *testing.T) {
	rom := buildROM(0x8000, ROM, 0, 0, "BADCHECKSUM")
	rom[0x14D] ^= 0xFF // corrupt it

	_, err := New(rom)
	require.Error(t, err)
	var checksumErr *ChecksumError
	assert.ErrorAs(t, err, &checksumErr)
}

func TestNewRejectsUnsupportedType(t *testing.T) {
	rom := buildROM(0x8000, MBC5, 0, 0, "MBC5CART")

	_, err := New(rom)
	require.Error(t, err)
	var unsupported *UnsupportedTypeError
	assert.ErrorAs(t, err, &unsupported)
}

func TestROMOnlyReadsFixedBank(t *testing.T) {
	rom := buildROM(0x8000, ROM, 0, 0, "TETRIS")
	rom[0x4000] = 0xAB

	cart, err := New(rom)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), cart.Read(0x4000))
}

func TestROMOnlyWritesAreIgnored(t *testing.T) {
	rom := buildROM(0x8000, ROM, 0, 0, "TETRIS")
	cart, err := New(rom)
	require.NoError(t, err)

	cart.Write(0x2000, 0xFF)
	assert.Equal(t, uint8(0x00), cart.Read(0x2000))
}

func TestHeaderFieldsParsed(t *testing.T) {
	rom := buildROM(0x8000, ROM, 0x01, 0x02, "SUPER MARIOLAND")
	cart, err := New(rom)
	require.NoError(t, err)

	h := cart.Header()
	assert.Equal(t, "SUPER MARIOLAND", strings.TrimRight(h.Title, "\x00"))
	assert.Equal(t, ROM, h.CartridgeType)
	assert.Equal(t, uint(64*1024), h.ROMSize)
	assert.Equal(t, uint(8*1024), h.RAMSize)
}

func TestMBC1SwitchesROMBanks(t *testing.T) {
	const bankSize = 0x4000
	rom := buildROM(4*bankSize, MBC1, 0x02, 0x02, "MBC1GAME")
	for bank := 0; bank < 4; bank++ {
		rom[bank*bankSize] = byte(bank) // tag each bank's first byte
	}

	cart, err := New(rom)
	require.NoError(t, err)

	cart.Write(0x2000, 2) // select ROM bank 2
	assert.Equal(t, uint8(2), cart.Read(0x4000))

	cart.Write(0x2000, 3) // select ROM bank 3
	assert.Equal(t, uint8(3), cart.Read(0x4000))

	cart.Write(0x2000, 0) // bank 0 treated as bank 1
	assert.Equal(t, uint8(1), cart.Read(0x4000))
}

func TestMBC1RAMRequiresEnable(t *testing.T) {
	rom := buildROM(2*0x4000, MBC1RAM, 0x01, 0x02, "MBC1RAM")
	cart, err := New(rom)
	require.NoError(t, err)

	cart.Write(0xA000, 0x55) // RAM disabled: write dropped
	assert.Equal(t, uint8(0xFF), cart.Read(0xA000))

	cart.Write(0x0000, 0x0A) // enable RAM
	cart.Write(0xA000, 0x55)
	assert.Equal(t, uint8(0x55), cart.Read(0xA000))
}

func TestMBC1RAMBanking(t *testing.T) {
	rom := buildROM(2*0x4000, MBC1RAM, 0x01, 0x03, "MBC1RAMBANK")
	cart, err := New(rom)
	require.NoError(t, err)

	cart.Write(0x0000, 0x0A) // enable RAM
	cart.Write(0x6000, 0x01) // RAM banking mode

	cart.Write(0x4000, 0x00) // RAM bank 0
	cart.Write(0xA000, 0x11)

	cart.Write(0x4000, 0x01) // RAM bank 1
	cart.Write(0xA000, 0x22)

	cart.Write(0x4000, 0x00)
	assert.Equal(t, uint8(0x11), cart.Read(0xA000))

	cart.Write(0x4000, 0x01)
	assert.Equal(t, uint8(0x22), cart.Read(0xA000))
}
