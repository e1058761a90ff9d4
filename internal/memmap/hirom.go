package memmap

import "fmt"

const (
	hiROMChunkSize = 0x10000
	hiROMMaxSRAM   = 0x2000

	hiROMSRAMFirstBank = 0x20
	hiROMSRAMLastBank  = 0x3F
	hiROMSRAMOffset    = 0x6000
)

// hiROMDirectives generates the mapping for the 64 KiB granule layout.
// The ROM is split into 64 KiB chunks addressed by the low 6 bits of the
// bank byte. The upper half of banks $00-$3F and $80-$BF shows the upper
// 32 KiB of the bank's chunk, banks $40-$7D and $C0-$FF show the full
// chunk. Chunks beyond the end of the ROM are left unmapped. Save RAM is
// tiled into $6000-$7FFF of banks $20-$3F and $A0-$BF.
func hiROMDirectives(romLen, sramLen int) ([]Directive, error) {
	if sramLen > hiROMMaxSRAM {
		return nil, fmt.Errorf("%w: HiROM supports at most %#x bytes of save RAM, cartridge declares %#x",
			ErrSRAMTooLarge, hiROMMaxSRAM, sramLen)
	}
	if romLen == 0 {
		return nil, ErrEmptyROM
	}

	directives := wramDirectives()

	for bank := 0; bank < 0x40; bank++ {
		src := bank*hiROMChunkSize + 0x8000
		if src >= romLen {
			continue
		}
		length := min(0x8000, romLen-src)
		directives = append(directives,
			Directive{
				Region:      ROM,
				Offset:      src,
				Destination: bank<<16 | 0x8000,
				Length:      length,
			},
			Directive{
				Region:      ROM,
				Offset:      src,
				Destination: (bank|0x80)<<16 | 0x8000,
				Length:      length,
			},
		)
	}

	for _, bankRange := range [][2]int{{0x40, 0x7D}, {0xC0, 0xFF}} {
		for bank := bankRange[0]; bank <= bankRange[1]; bank++ {
			src := (bank & 0x3F) * hiROMChunkSize
			if src >= romLen {
				continue
			}
			directives = append(directives, Directive{
				Region:      ROM,
				Offset:      src,
				Destination: bank << 16,
				Length:      min(hiROMChunkSize, romLen-src),
			})
		}
	}

	if sramLen > 0 {
		window := 0x8000 - hiROMSRAMOffset
		for bank := hiROMSRAMFirstBank; bank <= hiROMSRAMLastBank; bank++ {
			directives = appendSRAMTiles(directives,
				bank<<16|hiROMSRAMOffset, window, sramLen)
			directives = appendSRAMTiles(directives,
				(bank|0x80)<<16|hiROMSRAMOffset, window, sramLen)
		}
	}
	return directives, nil
}
