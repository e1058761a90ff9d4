package detector

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"github.com/retroenv/snesgomem/internal/cartridge"
	"github.com/retroenv/snesgomem/internal/memmap"
	"github.com/retroenv/snesgomem/internal/options"
)

// checksummedROM creates an image whose checksum fields at the given
// header base match the image data.
func checksummedROM(t *testing.T, size, headerBase int) []byte {
	t.Helper()

	rom := make([]byte, size)
	var sum uint16 = 0x1FE
	for _, b := range rom {
		sum += uint16(b)
	}
	complement := sum ^ 0xFFFF
	rom[headerBase+0x2C] = byte(complement)
	rom[headerBase+0x2D] = byte(complement >> 8)
	rom[headerBase+0x2E] = byte(sum)
	rom[headerBase+0x2F] = byte(sum >> 8)
	return rom
}

func loadCart(t *testing.T, rom []byte) *cartridge.Cartridge {
	t.Helper()
	cart, err := cartridge.New(rom, 0)
	assert.NoError(t, err)
	return cart
}

func TestDetectExplicitMode(t *testing.T) {
	detector := New(log.NewTestLogger(t))
	cart := loadCart(t, make([]byte, 0x8000))

	opts := options.Program{Flags: options.Flags{Mode: "hirom"}}
	mode, err := detector.Detect(opts, cart)
	assert.NoError(t, err)
	assert.Equal(t, memmap.ModeHiROM, mode)

	opts.Mode = "bogus"
	_, err = detector.Detect(opts, cart)
	assert.Error(t, err)
}

func TestDetectFromChecksum(t *testing.T) {
	detector := New(log.NewTestLogger(t))
	opts := options.Program{Flags: options.Flags{Mode: "auto"}}

	mode, err := detector.Detect(opts, loadCart(t, checksummedROM(t, 0x8000, cartridge.HeaderLoROM)))
	assert.NoError(t, err)
	assert.Equal(t, memmap.ModeLoROM, mode)

	mode, err = detector.Detect(opts, loadCart(t, checksummedROM(t, 0x10000, cartridge.HeaderHiROM)))
	assert.NoError(t, err)
	assert.Equal(t, memmap.ModeHiROM, mode)
}

func TestDetectFromMappingByte(t *testing.T) {
	detector := New(log.NewTestLogger(t))
	opts := options.Program{Flags: options.Flags{Mode: "auto"}}

	rom := make([]byte, 0x10000)
	rom[cartridge.HeaderHiROM+0x25] = 0x21
	mode, err := detector.Detect(opts, loadCart(t, rom))
	assert.NoError(t, err)
	assert.Equal(t, memmap.ModeHiROM, mode)

	rom = make([]byte, 0x8000)
	rom[cartridge.HeaderLoROM+0x25] = 0x30
	mode, err = detector.Detect(opts, loadCart(t, rom))
	assert.NoError(t, err)
	assert.Equal(t, memmap.ModeLoROM, mode)
}

func TestDetectInconclusive(t *testing.T) {
	detector := New(log.NewTestLogger(t))
	opts := options.Program{Flags: options.Flags{Mode: "auto"}}

	// no header information at all
	mode, err := detector.Detect(opts, loadCart(t, make([]byte, 0x8000)))
	assert.NoError(t, err)
	assert.Equal(t, memmap.ModeUnknown, mode)

	// both headers claim their own mode
	rom := make([]byte, 0x10000)
	rom[cartridge.HeaderLoROM+0x25] = 0x20
	rom[cartridge.HeaderHiROM+0x25] = 0x21
	mode, err = detector.Detect(opts, loadCart(t, rom))
	assert.NoError(t, err)
	assert.Equal(t, memmap.ModeUnknown, mode)
}

func TestMappingByteMode(t *testing.T) {
	assert.Equal(t, memmap.ModeLoROM, mappingByteMode(0x20))
	assert.Equal(t, memmap.ModeLoROM, mappingByteMode(0x30))
	assert.Equal(t, memmap.ModeHiROM, mappingByteMode(0x21))
	assert.Equal(t, memmap.ModeHiROM, mappingByteMode(0x31))
	assert.Equal(t, memmap.ModeUnknown, mappingByteMode(0x00))
	assert.Equal(t, memmap.ModeUnknown, mappingByteMode(0x25))
	assert.Equal(t, memmap.ModeUnknown, mappingByteMode(0xFF))
}
