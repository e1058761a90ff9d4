package fileprocessor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"github.com/retroenv/snesgomem/internal/memmap"
	"github.com/retroenv/snesgomem/internal/options"
)

// writeTestROM creates a LoROM image file with matching checksum fields
// and the given save RAM size header byte.
func writeTestROM(t *testing.T, dir string, ramSize byte) string {
	t.Helper()

	rom := make([]byte, 0x8000)
	rom[0x7FD8] = ramSize

	var sum uint16 = 0x1FE
	for _, b := range rom {
		sum += uint16(b)
	}
	complement := sum ^ 0xFFFF
	rom[0x7FDC] = byte(complement)
	rom[0x7FDD] = byte(complement >> 8)
	rom[0x7FDE] = byte(sum)
	rom[0x7FDF] = byte(sum >> 8)

	path := filepath.Join(dir, "test.sfc")
	assert.NoError(t, os.WriteFile(path, rom, 0o644))
	return path
}

func defaultOptions(input, output string) options.Program {
	return options.Program{
		Parameters: options.Parameters{Input: input, Output: output},
		Flags:      options.Flags{Mode: "auto", SRAMSize: -1, Quiet: true},
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	opts := defaultOptions(writeTestROM(t, dir, 0), filepath.Join(dir, "report.txt"))

	err := ProcessFile(context.Background(), log.NewTestLogger(t), opts)
	assert.NoError(t, err)

	report, err := os.ReadFile(opts.Output)
	assert.NoError(t, err)
	assert.Contains(t, string(report), "mode:     LoROM")
}

func TestProcessFilePokeAndRead(t *testing.T) {
	dir := t.TempDir()
	opts := defaultOptions(writeTestROM(t, dir, 0), filepath.Join(dir, "report.txt"))
	opts.Poke = "0x7E0000=0xAB"
	opts.Read = "0x000000,0x008000"

	err := ProcessFile(context.Background(), log.NewTestLogger(t), opts)
	assert.NoError(t, err)

	report, err := os.ReadFile(opts.Output)
	assert.NoError(t, err)
	assert.Contains(t, string(report), "$00:0000 = 0xab")
}

func TestProcessFileBattery(t *testing.T) {
	dir := t.TempDir()
	savePath := filepath.Join(dir, "test.srm")

	opts := defaultOptions(writeTestROM(t, dir, 1), filepath.Join(dir, "report.txt"))
	opts.Battery = savePath
	opts.Poke = "0x700000=0x42"

	err := ProcessFile(context.Background(), log.NewTestLogger(t), opts)
	assert.NoError(t, err)

	// the poked save RAM byte was flushed to the battery file
	save, err := os.ReadFile(savePath)
	assert.NoError(t, err)
	assert.Equal(t, 0x800, len(save))
	assert.Equal(t, byte(0x42), save[0])
}

func TestProcessFileModeRequired(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.sfc")
	assert.NoError(t, os.WriteFile(path, make([]byte, 0x8000), 0o644))

	opts := defaultOptions(path, "")
	err := ProcessFile(context.Background(), log.NewTestLogger(t), opts)
	assert.Error(t, err)
	assert.ErrorContains(t, err, memmap.ErrModeRequired.Error())
}

func TestProcessFileInvalidPoke(t *testing.T) {
	dir := t.TempDir()
	opts := defaultOptions(writeTestROM(t, dir, 0), "")
	opts.Poke = "0x7E0000"

	err := ProcessFile(context.Background(), log.NewTestLogger(t), opts)
	assert.Error(t, err)
}
