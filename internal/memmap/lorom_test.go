package memmap

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// lastDirectiveAt returns the last generated directive covering the flat
// address, mirroring the last-writer-wins rule of table construction.
func lastDirectiveAt(directives []Directive, flat int) (Directive, bool) {
	var found Directive
	var ok bool
	for _, d := range directives {
		if flat >= d.Destination && flat < d.Destination+d.Length {
			found = d
			ok = true
		}
	}
	return found, ok
}

func countRegion(directives []Directive, region Region) int {
	count := 0
	for _, d := range directives {
		if d.Region == region {
			count++
		}
	}
	return count
}

func TestLoROMChunkModulo(t *testing.T) {
	directives, err := loROMDirectives(0x10000, 0)
	assert.NoError(t, err)

	tests := []struct {
		flat       int
		wantOffset int
	}{
		{flat: 0x008000, wantOffset: 0},
		{flat: 0x018000, wantOffset: 0x8000},
		{flat: 0x028000, wantOffset: 0},       // chunk 2 % 2
		{flat: 0x808000, wantOffset: 0},       // bank $80 mirrors bank $00
		{flat: 0x418000, wantOffset: 0x8000},  // bank $41 mirrors bank $01
		{flat: 0x400000, wantOffset: 0},       // lower half mirror
		{flat: 0xC10000, wantOffset: 0x8000},  // lower half mirror, fast banks
	}

	for _, tt := range tests {
		d, ok := lastDirectiveAt(directives, tt.flat)
		assert.True(t, ok)
		assert.Equal(t, ROM, d.Region)
		assert.Equal(t, tt.wantOffset, d.Offset)
	}
}

func TestLoROMBanks7EAnd7FAreWRAM(t *testing.T) {
	directives, err := loROMDirectives(0x400000, 0)
	assert.NoError(t, err)

	d, ok := lastDirectiveAt(directives, 0x7E8000)
	assert.True(t, ok)
	assert.Equal(t, WRAM, d.Region)

	d, ok = lastDirectiveAt(directives, 0x7F0000)
	assert.True(t, ok)
	assert.Equal(t, WRAM, d.Region)
}

func TestLoROMSizeLimits(t *testing.T) {
	_, err := loROMDirectives(0x400000, 0)
	assert.NoError(t, err)

	_, err = loROMDirectives(0x400000+0x8000, 0)
	assert.True(t, errors.Is(err, ErrROMTooLarge))

	_, err = loROMDirectives(0, 0)
	assert.True(t, errors.Is(err, ErrEmptyROM))
}

func TestLoROMPartialChunk(t *testing.T) {
	directives, err := loROMDirectives(0xC000, 0)
	assert.NoError(t, err)

	d, ok := lastDirectiveAt(directives, 0x018000)
	assert.True(t, ok)
	assert.Equal(t, 0x8000, d.Offset)
	assert.Equal(t, 0x4000, d.Length)

	// the tail of the bank stays unbacked
	_, ok = lastDirectiveAt(directives, 0x01C000)
	assert.False(t, ok)
}

func TestLoROMSRAMTiling(t *testing.T) {
	directives, err := loROMDirectives(0x8000, 0x2000)
	assert.NoError(t, err)

	// 4 tiles per bank half, banks $70-$7D and $F0-$FF
	assert.Equal(t, (14+16)*4, countRegion(directives, SRAM))

	d, ok := lastDirectiveAt(directives, 0x702000)
	assert.True(t, ok)
	assert.Equal(t, SRAM, d.Region)
	assert.Equal(t, 0, d.Offset)
	assert.Equal(t, 0x2000, d.Length)

	// no ROM mirror in the lower halves when save RAM is present
	_, ok = lastDirectiveAt(directives, 0x400000)
	assert.False(t, ok)
}

func TestLoROMLargeSRAMBlocks(t *testing.T) {
	directives, err := loROMDirectives(0x8000, 0x10000)
	assert.NoError(t, err)

	// 14 blocks span $700000-$7DFFFF, 16 blocks span $F00000-$FFFFFF
	assert.Equal(t, 14+16, countRegion(directives, SRAM))

	d, ok := lastDirectiveAt(directives, 0x7D0000)
	assert.True(t, ok)
	assert.Equal(t, SRAM, d.Region)
	assert.Equal(t, 0x10000, d.Length)

	d, ok = lastDirectiveAt(directives, 0xFF8000)
	assert.True(t, ok)
	assert.Equal(t, SRAM, d.Region)
}
