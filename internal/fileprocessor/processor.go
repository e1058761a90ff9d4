// Package fileprocessor handles ROM file loading and inspection
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"github.com/retroenv/snesgomem/internal/addressing"
	"github.com/retroenv/snesgomem/internal/battery"
	"github.com/retroenv/snesgomem/internal/cartridge"
	"github.com/retroenv/snesgomem/internal/detector"
	"github.com/retroenv/snesgomem/internal/memmap"
	"github.com/retroenv/snesgomem/internal/options"
)

// ProcessFile handles the complete inspection workflow: it loads the
// cartridge, resolves the mapping mode, builds the memory map, attaches
// the save RAM file and writes the report.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) error {
	cart, err := loadCartridge(opts)
	if err != nil {
		return fmt.Errorf("loading cartridge: %w", err)
	}

	mode, err := detector.New(logger).Detect(opts, cart)
	if err != nil {
		return err
	}
	if mode == memmap.ModeUnknown {
		return fmt.Errorf("%w: detection was inconclusive, specify -mode lorom or -mode hirom",
			memmap.ErrModeRequired)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := buildMap(logger, cart, mode, opts)
	if err != nil {
		return fmt.Errorf("building memory map: %w", err)
	}

	save, err := attachBattery(logger, m, opts)
	if err != nil {
		return err
	}

	if err := pokeAddresses(m, opts.Poke); err != nil {
		return err
	}

	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if closer, ok := writer.(io.Closer); ok {
			_ = closer.Close()
		}
	}()

	if err := writeReport(writer, m, cart, mode, opts); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if save != nil {
		m.ReadSRAM(save.Bytes())
		if err := save.Close(); err != nil {
			return err
		}
	}
	return nil
}

func loadCartridge(opts options.Program) (*cartridge.Cartridge, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file '%s': %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	if opts.Raw {
		return cartridge.LoadBuffer(file)
	}
	return cartridge.LoadFile(file)
}

func buildMap(logger *log.Logger, cart *cartridge.Cartridge, mode memmap.Mode,
	opts options.Program) (*memmap.Map, error) {

	if opts.SRAMSize >= 0 {
		return memmap.NewWithSRAM(logger, cart.ROM, mode, opts.SRAMSize)
	}
	return memmap.New(logger, cart, mode)
}

// attachBattery opens the save RAM file and loads it into the save RAM
// region. The contents are written back when processing finishes.
func attachBattery(logger *log.Logger, m *memmap.Map, opts options.Program) (*battery.File, error) {
	if opts.Battery == "" {
		return nil, nil
	}
	if m.SRAMSize() == 0 {
		logger.Warn("Cartridge has no save RAM, ignoring battery file",
			log.String("file", opts.Battery))
		return nil, nil
	}

	save, err := battery.Open(opts.Battery, m.SRAMSize())
	if err != nil {
		return nil, fmt.Errorf("attaching battery file: %w", err)
	}
	m.LoadSRAM(save.Bytes())

	logger.Debug("Battery file attached",
		log.String("file", opts.Battery),
		log.Int("size", save.Size()))
	return save, nil
}

// pokeAddresses applies comma separated address=value pairs.
func pokeAddresses(m *memmap.Map, pokes string) error {
	if pokes == "" {
		return nil
	}

	for _, poke := range strings.Split(pokes, ",") {
		addrPart, valuePart, found := strings.Cut(poke, "=")
		if !found {
			return fmt.Errorf("invalid poke '%s', expected address=value", poke)
		}
		addr, err := parseAddress(addrPart)
		if err != nil {
			return err
		}
		value, err := strconv.ParseUint(strings.TrimSpace(valuePart), 0, 8)
		if err != nil {
			return fmt.Errorf("parsing poke value '%s': %w", valuePart, err)
		}
		m.Write(addr, byte(value))
	}
	return nil
}

func parseAddress(s string) (addressing.Address24, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing address '%s': %w", s, err)
	}
	addr, err := addressing.Address24FromInt(value)
	if err != nil {
		return 0, fmt.Errorf("parsing address '%s': %w", s, err)
	}
	return addr, nil
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file '%s': %w", opts.Output, err)
	}
	return file, nil
}

func writeReport(writer io.Writer, m *memmap.Map, cart *cartridge.Cartridge,
	mode memmap.Mode, opts options.Program) error {

	fmt.Fprintf(writer, "file:     %s\n", opts.Input)
	if header, err := cart.Header(headerBase(mode)); err == nil && header.Title != "" {
		fmt.Fprintf(writer, "title:    %s\n", header.Title)
	}
	fmt.Fprintf(writer, "mode:     %s\n", mode)
	fmt.Fprintf(writer, "tests:    %s\n", cart.Passed)
	fmt.Fprintf(writer, "rom:      %#x bytes\n", m.ROMSize())
	fmt.Fprintf(writer, "wram:     %#x bytes\n", m.WRAMSize())
	fmt.Fprintf(writer, "sram:     %#x bytes\n", m.SRAMSize())

	readable, writable := m.Coverage()
	fmt.Fprintf(writer, "readable: %#x of %#x addresses\n", readable, addressing.FlatSize)
	fmt.Fprintf(writer, "writable: %#x addresses\n", writable)

	directives := m.Directives()
	counts := map[memmap.Region]int{}
	for _, d := range directives {
		counts[d.Region]++
	}
	fmt.Fprintf(writer, "mapping:  %d directives (ROM %d, WRAM %d, SRAM %d)\n",
		len(directives), counts[memmap.ROM], counts[memmap.WRAM], counts[memmap.SRAM])
	for _, d := range directives {
		fmt.Fprintf(writer, "  %s\n", d)
	}

	return readAddresses(writer, m, opts.Read)
}

// readAddresses prints the byte values of comma separated addresses.
func readAddresses(writer io.Writer, m *memmap.Map, reads string) error {
	if reads == "" {
		return nil
	}

	for _, part := range strings.Split(reads, ",") {
		addr, err := parseAddress(part)
		if err != nil {
			return err
		}
		fmt.Fprintf(writer, "%s = %#02x\n", addr, m.Read(addr))
	}
	return nil
}

func headerBase(mode memmap.Mode) int {
	if mode == memmap.ModeHiROM {
		return cartridge.HeaderHiROM
	}
	return cartridge.HeaderLoROM
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("snesgomem", log.String("version", buildinfo.Version(version, commit, date)))
}
