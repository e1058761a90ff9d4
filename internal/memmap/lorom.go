package memmap

import "fmt"

const (
	loROMChunkSize = 0x8000
	loROMMaxROM    = 0x400000

	loROMSRAMFirstBank = 0x70
	loROMSRAMLastBank  = 0x7D
)

// loROMDirectives generates the mapping for the 32 KiB granule layout.
// The ROM is split into 32 KiB chunks, chunk (bank & 0x7F) modulo the
// chunk count is visible in the upper half of every bank except $7E-$7F.
// Without save RAM the same chunk is mirrored into the lower half of
// banks $40-$7D and $C0-$FF. Save RAM occupies the lower half of banks
// $70-$7D and $F0-$FF when it fits into a chunk, larger save RAM tiles
// the full flat ranges $700000-$7DFFFF and $F00000-$FFFFFF.
func loROMDirectives(romLen, sramLen int) ([]Directive, error) {
	if romLen > loROMMaxROM {
		return nil, fmt.Errorf("%w: LoROM supports at most %#x bytes, image has %#x",
			ErrROMTooLarge, loROMMaxROM, romLen)
	}
	chunks := (romLen + loROMChunkSize - 1) / loROMChunkSize
	if chunks == 0 {
		return nil, ErrEmptyROM
	}

	directives := wramDirectives()

	for bank := 0; bank < bankCount; bank++ {
		if bank == 0x7E || bank == 0x7F {
			continue
		}
		chunk := (bank & 0x7F) % chunks
		src := chunk * loROMChunkSize
		directives = append(directives, Directive{
			Region:      ROM,
			Offset:      src,
			Destination: bank<<16 | loROMChunkSize,
			Length:      min(loROMChunkSize, romLen-src),
		})
	}

	if sramLen == 0 {
		// mirror the ROM into the lower half of banks $40-$7D and
		// $C0-$FF, doubling the visible ROM range
		for _, bankRange := range [][2]int{{0x40, 0x7D}, {0xC0, 0xFF}} {
			for bank := bankRange[0]; bank <= bankRange[1]; bank++ {
				chunk := (bank & 0x7F) % chunks
				src := chunk * loROMChunkSize
				directives = append(directives, Directive{
					Region:      ROM,
					Offset:      src,
					Destination: bank << 16,
					Length:      min(loROMChunkSize, romLen-src),
				})
			}
		}
		return directives, nil
	}

	if sramLen <= loROMChunkSize {
		for bank := loROMSRAMFirstBank; bank <= loROMSRAMLastBank; bank++ {
			directives = appendSRAMTiles(directives, bank<<16, loROMChunkSize, sramLen)
		}
		for bank := loROMSRAMFirstBank | 0x80; bank < bankCount; bank++ {
			directives = appendSRAMTiles(directives, bank<<16, loROMChunkSize, sramLen)
		}
		return directives, nil
	}

	for dst := loROMSRAMFirstBank << 16; dst < 0x7E0000; dst += sramLen {
		directives = append(directives, Directive{
			Region:      SRAM,
			Destination: dst,
			Length:      min(sramLen, 0x7E0000-dst),
		})
	}
	for dst := (loROMSRAMFirstBank | 0x80) << 16; dst < flatSize; dst += sramLen {
		directives = append(directives, Directive{
			Region:      SRAM,
			Destination: dst,
			Length:      min(sramLen, flatSize-dst),
		})
	}
	return directives, nil
}

// appendSRAMTiles repeats the save RAM region across a window of the
// given size starting at the flat destination.
func appendSRAMTiles(directives []Directive, destination, window, sramLen int) []Directive {
	for off := 0; off < window; off += sramLen {
		directives = append(directives, Directive{
			Region:      SRAM,
			Destination: destination + off,
			Length:      min(sramLen, window-off),
		})
	}
	return directives
}
