// Package memmap implements the memory subsystem of the console: a flat
// 24 bit address space backed by cartridge ROM, working RAM and optional
// save RAM. The visibility of the regions is resolved at construction
// time into two lookup tables, one for reads and one for writes, making
// every access an O(1) table lookup plus an atomic byte access.
package memmap

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/retroenv/retrogolib/log"

	"github.com/retroenv/snesgomem/internal/addressing"
	"github.com/retroenv/snesgomem/internal/cartridge"
)

const (
	bankCount = 0x100
	pageSize  = 0x10000
	flatSize  = bankCount * pageSize
	wramSize  = 2 * pageSize

	// OpenBusValue is returned for reads of addresses without backing
	// storage, modeling the open bus behavior of the hardware.
	OpenBusValue = 0x55

	// unbacked marks a decode table slot without backing storage
	unbacked = -1
)

// Construction errors.
var (
	ErrModeRequired = errors.New("mapping mode required")
	ErrEmptyROM     = errors.New("ROM image is empty")
	ErrROMTooLarge  = errors.New("ROM image exceeds the mode limit")
	ErrSRAMTooLarge = errors.New("save RAM size exceeds the mode limit")
)

// Map is the memory map of a loaded cartridge. It is safe for concurrent
// use without external locking: every backing byte is an independent
// atomic cell and the decode tables are immutable after construction.
type Map struct {
	mode Mode

	// decode tables, one slot per flat address holding either unbacked
	// or an index into cells
	readable []int32
	writable []int32

	// all region bytes in one array, partitioned ROM | WRAM | SRAM
	cells   []atomic.Uint32
	romLen  int
	sramLen int

	directives []Directive
}

// New builds the memory map for a cartridge. The save RAM size is taken
// from the internal header of the resolved mode. The mode has to be
// known, detection is the caller's concern.
func New(logger *log.Logger, cart *cartridge.Cartridge, mode Mode) (*Map, error) {
	if mode == ModeUnknown {
		return nil, ErrModeRequired
	}

	sramLen := 0
	if header, err := cart.Header(headerBase(mode)); err == nil {
		sramLen = header.SRAMSize
	}
	return NewWithSRAM(logger, cart.ROM, mode, sramLen)
}

// NewWithSRAM builds the memory map for a raw ROM image and an explicit
// save RAM size, bypassing the cartridge header.
func NewWithSRAM(logger *log.Logger, rom []byte, mode Mode, sramLen int) (*Map, error) {
	if sramLen < 0 {
		return nil, fmt.Errorf("invalid save RAM size %d", sramLen)
	}

	directives, err := mode.directives(len(rom), sramLen)
	if err != nil {
		return nil, fmt.Errorf("generating mapping directives: %w", err)
	}

	m := &Map{
		mode:       mode,
		readable:   make([]int32, flatSize),
		writable:   make([]int32, flatSize),
		cells:      make([]atomic.Uint32, len(rom)+wramSize+sramLen),
		romLen:     len(rom),
		sramLen:    sramLen,
		directives: directives,
	}
	for i := range m.readable {
		m.readable[i] = unbacked
		m.writable[i] = unbacked
	}
	for i, b := range rom {
		m.cells[i].Store(uint32(b))
	}

	if err := m.apply(directives); err != nil {
		return nil, fmt.Errorf("applying mapping directives: %w", err)
	}

	logger.Debug("Memory map built",
		log.Stringer("mode", mode),
		log.Int("rom_size", len(rom)),
		log.Int("sram_size", sramLen),
		log.Int("directives", len(directives)))
	return m, nil
}

// apply populates the decode tables from the directives, in order.
// Overlapping destinations take the value of the last applied directive.
func (m *Map) apply(directives []Directive) error {
	for _, d := range directives {
		base, size := m.region(d.Region)
		if d.Offset < 0 || d.Length <= 0 || d.Offset+d.Length > size {
			return fmt.Errorf("directive %s exceeds the region size %#x", d, size)
		}
		if d.Destination < 0 || d.Destination+d.Length > flatSize {
			return fmt.Errorf("directive %s exceeds the address space", d)
		}

		writable := d.Region != ROM
		for i := 0; i < d.Length; i++ {
			cell := int32(base + d.Offset + i)
			m.readable[d.Destination+i] = cell
			if writable {
				m.writable[d.Destination+i] = cell
			}
		}
	}
	return nil
}

// region returns the cell array partition of a region.
func (m *Map) region(r Region) (base, size int) {
	switch r {
	case ROM:
		return 0, m.romLen
	case WRAM:
		return m.romLen, wramSize
	case SRAM:
		return m.romLen + wramSize, m.sramLen
	}
	return 0, 0
}

// Read returns the byte backing the address. Addresses without backing
// storage read as OpenBusValue. Read never fails.
func (m *Map) Read(addr addressing.Address24) byte {
	cell := m.readable[addr.Index()]
	if cell == unbacked {
		return OpenBusValue
	}
	return byte(m.cells[cell].Load())
}

// Write stores the byte at the address. Writes to addresses without
// writable backing storage are silently discarded. Write never fails.
func (m *Map) Write(addr addressing.Address24, value byte) {
	cell := m.writable[addr.Index()]
	if cell == unbacked {
		return
	}
	m.cells[cell].Store(uint32(value))
}

// Mode returns the mapping mode the map was built with.
func (m *Map) Mode() Mode {
	return m.mode
}

// ROMSize returns the size of the ROM region in bytes.
func (m *Map) ROMSize() int {
	return m.romLen
}

// WRAMSize returns the size of the working RAM region in bytes.
func (m *Map) WRAMSize() int {
	return wramSize
}

// SRAMSize returns the size of the save RAM region in bytes, 0 if the
// cartridge has none.
func (m *Map) SRAMSize() int {
	return m.sramLen
}

// Directives returns a copy of the applied mapping directives.
func (m *Map) Directives() []Directive {
	directives := make([]Directive, len(m.directives))
	copy(directives, m.directives)
	return directives
}

// LoadSRAM copies data into the save RAM region and returns the number
// of bytes copied.
func (m *Map) LoadSRAM(data []byte) int {
	base, size := m.region(SRAM)
	n := min(len(data), size)
	for i := 0; i < n; i++ {
		m.cells[base+i].Store(uint32(data[i]))
	}
	return n
}

// ReadSRAM copies the save RAM contents into buf and returns the number
// of bytes copied.
func (m *Map) ReadSRAM(buf []byte) int {
	base, size := m.region(SRAM)
	n := min(len(buf), size)
	for i := 0; i < n; i++ {
		buf[i] = byte(m.cells[base+i].Load())
	}
	return n
}

// Coverage returns how many flat addresses have readable and writable
// backing storage.
func (m *Map) Coverage() (readable, writable int) {
	for i := range m.readable {
		if m.readable[i] != unbacked {
			readable++
		}
		if m.writable[i] != unbacked {
			writable++
		}
	}
	return readable, writable
}

func headerBase(mode Mode) int {
	if mode == ModeHiROM {
		return cartridge.HeaderHiROM
	}
	return cartridge.HeaderLoROM
}
