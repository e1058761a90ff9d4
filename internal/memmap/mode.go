package memmap

import (
	"fmt"
	"strings"
)

// Mode identifies the cartridge hardware scheme that determines how ROM
// and save RAM are laid out across the flat address space.
type Mode int

// The supported mapping modes.
const (
	ModeUnknown Mode = iota
	ModeLoROM
	ModeHiROM
)

func (m Mode) String() string {
	switch m {
	case ModeLoROM:
		return "LoROM"
	case ModeHiROM:
		return "HiROM"
	}
	return "unknown"
}

// ModeFromString parses a mapping mode name. An empty string and "auto"
// parse to ModeUnknown, leaving the mode to be detected.
func ModeFromString(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "lorom":
		return ModeLoROM, nil
	case "hirom":
		return ModeHiROM, nil
	case "", "auto":
		return ModeUnknown, nil
	}
	return ModeUnknown, fmt.Errorf("unsupported mapping mode '%s', valid modes: lorom, hirom, auto", name)
}

// directives returns the ordered mapping directives of the mode for the
// given ROM and save RAM sizes.
func (m Mode) directives(romLen, sramLen int) ([]Directive, error) {
	switch m {
	case ModeLoROM:
		return loROMDirectives(romLen, sramLen)
	case ModeHiROM:
		return hiROMDirectives(romLen, sramLen)
	}
	return nil, ErrModeRequired
}
