package cartridge

import "fmt"

// Flat ROM offsets of the internal header for the two standard layouts.
const (
	HeaderLoROM = 0x7FB0
	HeaderHiROM = 0xFFB0
)

// offsets of header fields relative to the header base
const (
	headerTitle      = 0x10
	headerTitleLen   = 21
	headerMapping    = 0x25
	headerRAMSize    = 0x28
	headerComplement = 0x2C
	headerChecksum   = 0x2E
	headerSize       = 0x30
)

// Header contains the fields of an internal cartridge header.
type Header struct {
	Title      string
	Mapping    byte // speed and map mode byte
	SRAMSize   int  // save RAM size in bytes, 0 if none
	Complement uint16
	Checksum   uint16
}

// Header decodes the internal header at the given flat ROM offset,
// usually HeaderLoROM or HeaderHiROM. An error is returned when the
// image is too small to contain a header at that offset.
func (c *Cartridge) Header(base int) (Header, error) {
	if base < 0 || base+headerSize > len(c.ROM) {
		return Header{}, fmt.Errorf("image of size %#x has no header at offset %#x",
			len(c.ROM), base)
	}

	title := c.ROM[base+headerTitle : base+headerTitle+headerTitleLen]
	return Header{
		Title:      printableTitle(title),
		Mapping:    c.ROM[base+headerMapping],
		SRAMSize:   decodeRAMSize(c.ROM[base+headerRAMSize]),
		Complement: readWord(c.ROM, base+headerComplement),
		Checksum:   readWord(c.ROM, base+headerChecksum),
	}, nil
}

// decodeRAMSize converts the header RAM size byte to a byte count,
// the byte encodes the size as 1 KiB << n.
func decodeRAMSize(value byte) int {
	if value == 0 || value > 0x0C {
		return 0
	}
	return 0x400 << value
}

func printableTitle(raw []byte) string {
	title := make([]byte, len(raw))
	for i, b := range raw {
		if b < 0x20 || b > 0x7E {
			b = ' '
		}
		title[i] = b
	}
	for len(title) > 0 && title[len(title)-1] == ' ' {
		title = title[:len(title)-1]
	}
	return string(title)
}
