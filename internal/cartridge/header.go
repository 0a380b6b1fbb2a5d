package cartridge

import "fmt"

// Type identifies the cartridge's hardware layout, as read from the
// 0x0147 header byte.
type Type uint8

const (
	ROM         Type = 0x00
	MBC1        Type = 0x01
	MBC1RAM     Type = 0x02
	MBC1RAMBATT Type = 0x03
	MBC2        Type = 0x05
	MBC2BATT    Type = 0x06
	MBC3RAMBATT Type = 0x13
	MBC5        Type = 0x19
)

// ramSizeCodes maps the 0x0149 RAM-size byte to a size in bytes.
var ramSizeCodes = map[uint8]uint{
	0x00: 0,
	0x01: 2 * 1024,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// Header is the parsed cartridge header, occupying 0x0100-0x014F of the
// ROM image.
type Header struct {
	// Title is the ASCII game title, 0x0134-0x0143.
	Title string
	// ManufacturerCode is 0x013F-0x0142, only meaningful on newer carts.
	ManufacturerCode string
	// CGBFlag is the raw value of 0x0143: 0x80 supports CGB, 0xC0 is
	// CGB-only, anything else is a plain DMG title.
	CGBFlag uint8
	// NewLicenseeCode is 0x0144-0x0145.
	NewLicenseeCode string
	OldLicenseeCode uint8
	SGBFlag         bool
	CartridgeType   Type
	ROMSize         uint
	RAMSize         uint
	CountryCode     uint8
	MaskROMVersion  uint8
	HeaderChecksum  uint8
	GlobalChecksum  uint16
}

// ParseHeader parses the 0x50-byte header starting at rom[0x100]. rom
// must be at least 0x150 bytes long.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x150 {
		return Header{}, fmt.Errorf("cartridge: image too small to contain a header: %d bytes", len(rom))
	}
	h := rom[0x100:0x150]

	hdr := Header{
		CGBFlag:         h[0x43],
		ManufacturerCode: string(h[0x3F:0x43]),
		NewLicenseeCode: string(h[0x44:0x46]),
		SGBFlag:         h[0x46] == 0x03,
		CartridgeType:   Type(h[0x47]),
		ROMSize:         (32 * 1024) << h[0x48],
		RAMSize:         ramSizeCodes[h[0x49]],
		CountryCode:     h[0x4A],
		OldLicenseeCode: h[0x4B],
		MaskROMVersion:  h[0x4C],
		HeaderChecksum:  h[0x4D],
		GlobalChecksum:  uint16(h[0x4E])<<8 | uint16(h[0x4F]),
	}
	if hdr.CGBFlag == 0x80 || hdr.CGBFlag == 0xC0 {
		hdr.Title = string(h[0x34:0x43])
	} else {
		hdr.Title = string(h[0x34:0x44])
	}

	if err := validateChecksum(h); err != nil {
		return hdr, err
	}
	return hdr, nil
}

// validateChecksum verifies the header checksum at 0x014D:
// ((-sum(0x0134..0x014C)) - 1) & 0xFF, computed over h relative to 0x100.
func validateChecksum(h []byte) error {
	var sum uint8
	for _, b := range h[0x34:0x4D] {
		sum -= b + 1
	}
	if sum != h[0x4D] {
		return &ChecksumError{Want: h[0x4D], Got: sum}
	}
	return nil
}

// ChecksumError reports a header checksum mismatch.
type ChecksumError struct {
	Want uint8
	Got  uint8
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("cartridge: header checksum mismatch: header says 0x%02X, computed 0x%02X", e.Want, e.Got)
}

// String renders a one-line banner for the header, in the shape the
// reference emulator prints at load time.
func (h Header) String() string {
	return fmt.Sprintf("%s | type=0x%02X | ROM=%dkB | RAM=%dkB", h.Title, h.CartridgeType, h.ROMSize/1024, h.RAMSize/1024)
}

// SupportsCGB reports whether the header claims any CGB support.
func (h Header) SupportsCGB() bool {
	return h.CGBFlag == 0x80 || h.CGBFlag == 0xC0
}
