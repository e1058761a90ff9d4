// Package addressing provides the address value types of the SNES memory bus.
package addressing

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a value does not fit into the address width.
var ErrOutOfRange = errors.New("value out of address range")

// Address16 is a 16 bit bank-local address.
type Address16 uint16

// Address24 is a 24 bit address of the flat 16 MiB address space. The high
// byte selects one of 256 banks, the lower 16 bit are the offset within the
// bank. The value is always below 1<<24, constructors enforce this.
type Address24 uint32

const (
	// FlatSize is the number of distinct 24 bit addresses.
	FlatSize = 1 << 24

	addressMask24 = FlatSize - 1
)

// NewAddress16 creates an Address16 from a raw value.
func NewAddress16(value uint16) Address16 {
	return Address16(value)
}

// Address16FromInt creates an Address16 from an integer of any origin.
// It returns an error wrapping ErrOutOfRange if the value does not fit
// into 16 bits.
func Address16FromInt(value int64) (Address16, error) {
	if value < 0 || value > 0xFFFF {
		return 0, fmt.Errorf("%w: %#x does not fit into 16 bits", ErrOutOfRange, value)
	}
	return Address16(value), nil
}

// Low returns the low byte of the address.
func (a Address16) Low() byte {
	return byte(a)
}

// High returns the high byte of the address.
func (a Address16) High() byte {
	return byte(a >> 8)
}

func (a Address16) String() string {
	return fmt.Sprintf("$%04X", uint16(a))
}

// NewAddress24 creates an Address24 from a raw value, truncating it to
// 24 bits. Use Address24FromInt when silent truncation is not acceptable.
func NewAddress24(value uint32) Address24 {
	return Address24(value & addressMask24)
}

// Address24FromInt creates an Address24 from an integer of any origin.
// It returns an error wrapping ErrOutOfRange if the value does not fit
// into 24 bits.
func Address24FromInt(value int64) (Address24, error) {
	if value < 0 || value >= FlatSize {
		return 0, fmt.Errorf("%w: %#x does not fit into 24 bits", ErrOutOfRange, value)
	}
	return Address24(value), nil
}

// Bank returns the bank byte of the address.
func (a Address24) Bank() byte {
	return byte(a >> 16)
}

// Low returns the low byte of the bank offset.
func (a Address24) Low() byte {
	return byte(a)
}

// Middle returns the high byte of the bank offset.
func (a Address24) Middle() byte {
	return byte(a >> 8)
}

// Offset16 returns the 16 bit offset within the bank.
func (a Address24) Offset16() Address16 {
	return Address16(a)
}

// Add returns the address advanced by delta, wrapping around the 24 bit
// address space.
func (a Address24) Add(delta uint32) Address24 {
	return Address24((uint32(a) + delta) & addressMask24)
}

// Index returns the address as a flat index in [0, FlatSize).
func (a Address24) Index() int {
	return int(a)
}

func (a Address24) String() string {
	return fmt.Sprintf("$%02X:%04X", a.Bank(), uint16(a))
}
