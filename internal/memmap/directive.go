package memmap

import "fmt"

// Region identifies one of the physical memory regions of the system.
type Region int

// The physical memory regions.
const (
	ROM Region = iota
	WRAM
	SRAM
)

func (r Region) String() string {
	switch r {
	case ROM:
		return "ROM"
	case WRAM:
		return "WRAM"
	case SRAM:
		return "SRAM"
	}
	return "undefined"
}

// Directive makes a contiguous run of region bytes visible in the flat
// address space: region bytes [Offset, Offset+Length) appear at flat
// addresses [Destination, Destination+Length). Directives are applied in
// order, a later directive overrides earlier ones for the same flat
// address.
type Directive struct {
	Region      Region
	Offset      int
	Destination int
	Length      int
}

func (d Directive) String() string {
	return fmt.Sprintf("%s[%#06x:%#06x] -> $%06X", d.Region,
		d.Offset, d.Offset+d.Length, d.Destination)
}

// wramDirectives returns the mapping of working RAM that is shared by all
// modes: the first 8 KiB of WRAM is visible in the low 8 KiB of banks
// $00-$3F and $80-$BF, the full region is visible at banks $7E-$7F.
func wramDirectives() []Directive {
	directives := make([]Directive, 0, 2*0x40+1)
	for bank := 0; bank < 0x40; bank++ {
		directives = append(directives,
			Directive{Region: WRAM, Destination: bank << 16, Length: 0x2000},
			Directive{Region: WRAM, Destination: (bank | 0x80) << 16, Length: 0x2000},
		)
	}
	directives = append(directives,
		Directive{Region: WRAM, Destination: 0x7E0000, Length: wramSize})
	return directives
}
