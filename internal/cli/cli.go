// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/snesgomem/internal/memmap"
	"github.com/retroenv/snesgomem/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}
	opts.Input = args[0]

	if _, err := memmap.ModeFromString(opts.Mode); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: snesgomem [options] <ROM file>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after the ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Output, "o", "", "name of the report output file, printed on console if no name given")
	flags.StringVar(&opts.Battery, "battery", "", "name of the save RAM file to attach, created if missing")
	flags.StringVar(&opts.Mode, "mode", "auto", "mapping mode of the cartridge (lorom/hirom/auto)")
	flags.IntVar(&opts.SRAMSize, "sram", -1, "save RAM size in bytes, overrides the cartridge header")
	flags.StringVar(&opts.Read, "read", "", "comma separated list of addresses to read, for example 0x7E0000,0x8000")
	flags.StringVar(&opts.Poke, "poke", "", "comma separated address=value pairs to write before reading")
	flags.BoolVar(&opts.Raw, "raw", false, "load the image without plausibility tests")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
