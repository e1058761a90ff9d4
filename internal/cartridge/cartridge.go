// Package cartridge loads SNES ROM images and reads their header fields.
package cartridge

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Tests is a bit set of plausibility tests a ROM image can pass.
type Tests uint32

const (
	// TestSize passes if the image size is a non zero multiple of 0x8000.
	TestSize Tests = 1 << iota
	// TestChecksumLo passes if the checksum fields of the LoROM header
	// at offset 0x7FDC match the image.
	TestChecksumLo
	// TestChecksumHi passes if the checksum fields of the HiROM header
	// at offset 0xFFDC match the image.
	TestChecksumHi

	// TestChecksumEither passes if either checksum test passes.
	TestChecksumEither = TestChecksumLo | TestChecksumHi
)

// ErrNotProbableCartridge is returned when the image fails a required
// plausibility test.
var ErrNotProbableCartridge = errors.New("image is probably not a cartridge")

// copier headers prepend this many bytes to images created by old backup units
const copierHeaderSize = 0x200

// Cartridge represents a loaded ROM image.
type Cartridge struct {
	ROM []byte

	// Passed contains the plausibility tests the image passed on loading.
	Passed Tests
}

// New creates a cartridge from a ROM image. The image has to pass every
// test in required, otherwise an error wrapping ErrNotProbableCartridge
// is returned together with the tests that did pass.
func New(rom []byte, required Tests) (*Cartridge, error) {
	passed := runTests(rom)
	if passed&required != required {
		return nil, fmt.Errorf("%w: passed tests [%s], required [%s]",
			ErrNotProbableCartridge, passed, required)
	}

	return &Cartridge{
		ROM:    rom,
		Passed: passed,
	}, nil
}

// LoadFile reads a ROM image from the reader. A copier header is stripped
// if present. The image has to pass the size plausibility test.
func LoadFile(reader io.Reader) (*Cartridge, error) {
	rom, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	if len(rom)%0x8000 == copierHeaderSize {
		rom = rom[copierHeaderSize:]
	}

	return New(rom, TestSize)
}

// LoadBuffer reads a raw ROM image from the reader without stripping a
// copier header and without requiring any plausibility test to pass.
func LoadBuffer(reader io.Reader) (*Cartridge, error) {
	rom, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return New(rom, 0)
}

func runTests(rom []byte) Tests {
	var passed Tests
	if len(rom) > 0 && len(rom)%0x8000 == 0 {
		passed |= TestSize
	}

	// data sum over the whole image, the checksum and complement fields
	// contribute a constant 0x1FE to it
	var sum uint16
	for _, b := range rom {
		sum += uint16(b)
	}

	if checksumMatches(rom, 0x7FDC, sum) {
		passed |= TestChecksumLo
	}
	if checksumMatches(rom, 0xFFDC, sum) {
		passed |= TestChecksumHi
	}
	return passed
}

func checksumMatches(rom []byte, offset int, sum uint16) bool {
	if offset+4 > len(rom) {
		return false
	}
	complement := readWord(rom, offset)
	checksum := readWord(rom, offset+2)
	return checksum == sum && complement == sum^0xFFFF
}

func readWord(rom []byte, offset int) uint16 {
	return uint16(rom[offset]) | uint16(rom[offset+1])<<8
}

func (t Tests) String() string {
	var names []string
	if t&TestSize != 0 {
		names = append(names, "size")
	}
	if t&TestChecksumLo != 0 {
		names = append(names, "checksum-lo")
	}
	if t&TestChecksumHi != 0 {
		names = append(names, "checksum-hi")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}
