// Package battery persists the save RAM contents of a cartridge to a
// file that is kept memory mapped while open.
package battery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"
)

// FileExtension is the default extension of save RAM files.
const FileExtension = ".srm"

// File is a memory mapped save RAM file.
type File struct {
	file *os.File
	mem  mmap.MMap
}

// PathForROM returns the save file path for a ROM file path, the ROM
// extension replaced by FileExtension.
func PathForROM(romPath string) string {
	base := filepath.Base(romPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(filepath.Clean(romPath)), base+FileExtension)
}

// Open opens or creates the save file and maps it into memory. An
// existing file is resized to the given save RAM size.
func Open(path string, size int) (*File, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid save RAM size %d", size)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening save file '%s': %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("reading save file info: %w", err)
	}
	if info.Size() != int64(size) {
		if err := file.Truncate(int64(size)); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("resizing save file to %d bytes: %w", size, err)
		}
	}

	mem, err := mmap.Map(file, mmap.RDWR, 0)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("mapping save file: %w", err)
	}

	return &File{
		file: file,
		mem:  mem,
	}, nil
}

// Bytes returns the mapped save file contents. Changes to the returned
// slice are written back to the file on Flush or Close.
func (f *File) Bytes() []byte {
	return f.mem
}

// Size returns the size of the save file in bytes.
func (f *File) Size() int {
	return len(f.mem)
}

// Flush writes the mapped contents back to the file.
func (f *File) Flush() error {
	if err := f.mem.Flush(); err != nil {
		return fmt.Errorf("flushing save file: %w", err)
	}
	return nil
}

// Close flushes and unmaps the save file.
func (f *File) Close() error {
	if err := f.mem.Flush(); err != nil {
		_ = f.mem.Unmap()
		_ = f.file.Close()
		return fmt.Errorf("flushing save file: %w", err)
	}
	if err := f.mem.Unmap(); err != nil {
		_ = f.file.Close()
		return fmt.Errorf("unmapping save file: %w", err)
	}
	if err := f.file.Close(); err != nil {
		return fmt.Errorf("closing save file: %w", err)
	}
	return nil
}
