// Package detector handles cartridge mapping mode detection.
package detector

import (
	"github.com/retroenv/retrogolib/log"

	"github.com/retroenv/snesgomem/internal/cartridge"
	"github.com/retroenv/snesgomem/internal/memmap"
	"github.com/retroenv/snesgomem/internal/options"
)

// Detector resolves the mapping mode of a cartridge from options and
// cartridge heuristics.
type Detector struct {
	logger *log.Logger
}

// New creates a new mapping mode detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the mapping mode from options or cartridge
// auto-detection. An explicitly specified mode always wins. Detection is
// advisory, ModeUnknown is returned when the heuristics are inconclusive
// and the caller has to treat the mode as missing.
func (d *Detector) Detect(opts options.Program, cart *cartridge.Cartridge) (memmap.Mode, error) {
	mode, err := memmap.ModeFromString(opts.Mode)
	if err != nil {
		return memmap.ModeUnknown, err
	}
	if mode != memmap.ModeUnknown {
		return mode, nil
	}

	mode = d.detectFromCartridge(cart)
	d.logger.Debug("Auto-detected mapping mode",
		log.Stringer("mode", mode),
		log.Stringer("passed_tests", cart.Passed))
	return mode, nil
}

// detectFromCartridge inspects the cartridge image. A checksum matching
// exactly one of the two header locations decides the mode, otherwise
// the mapping byte of the headers is consulted.
func (d *Detector) detectFromCartridge(cart *cartridge.Cartridge) memmap.Mode {
	checksumLo := cart.Passed&cartridge.TestChecksumLo != 0
	checksumHi := cart.Passed&cartridge.TestChecksumHi != 0
	switch {
	case checksumLo && !checksumHi:
		return memmap.ModeLoROM
	case checksumHi && !checksumLo:
		return memmap.ModeHiROM
	}

	lo := memmap.ModeUnknown
	if header, err := cart.Header(cartridge.HeaderLoROM); err == nil {
		if mappingByteMode(header.Mapping) == memmap.ModeLoROM {
			lo = memmap.ModeLoROM
		}
	}
	hi := memmap.ModeUnknown
	if header, err := cart.Header(cartridge.HeaderHiROM); err == nil {
		if mappingByteMode(header.Mapping) == memmap.ModeHiROM {
			hi = memmap.ModeHiROM
		}
	}

	switch {
	case lo != memmap.ModeUnknown && hi == memmap.ModeUnknown:
		return lo
	case hi != memmap.ModeUnknown && lo == memmap.ModeUnknown:
		return hi
	}
	// no usable header or both headers claim their own mode
	return memmap.ModeUnknown
}

// mappingByteMode decodes the header speed and map mode byte, its upper
// bits are fixed to 0b001 and the low nibble selects the layout.
func mappingByteMode(value byte) memmap.Mode {
	if value&0xE0 != 0x20 {
		return memmap.ModeUnknown
	}
	switch value & 0x0F {
	case 0x00:
		return memmap.ModeLoROM
	case 0x01:
		return memmap.ModeHiROM
	}
	return memmap.ModeUnknown
}
