// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input   string // ROM file to inspect
	Output  string // report output file, stdout if empty
	Battery string // save RAM file to attach
}

// Flags contains behavior options.
type Flags struct {
	Mode     string // mapping mode: lorom, hirom or auto
	SRAMSize int    // save RAM size override in bytes, -1 uses the header
	Read     string // comma separated list of addresses to read
	Poke     string // comma separated address=value pairs to write
	Raw      bool   // skip the cartridge plausibility tests
	Debug    bool   // enable debug logging
	Quiet    bool   // quiet mode
}

// Program options of the inspector.
type Program struct {
	Parameters
	Flags
}
