// Package romfile loads a cartridge image from disk, transparently
// decompressing a .7z archive when that's what was handed to it, so a
// ROM someone downloaded pre-zipped doesn't need a manual extract step.
package romfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// Load reads path and returns its raw bytes. If path ends in .7z, the
// archive's first regular file is extracted instead of returning the
// archive bytes themselves.
func Load(path string) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".7z") {
		return loadSevenZip(path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("romfile: %w", err)
	}
	return b, nil
}

func loadSevenZip(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("romfile: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("romfile: %w", err)
	}

	r, err := sevenzip.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("romfile: opening archive: %w", err)
	}

	for _, entry := range r.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("romfile: reading %s from archive: %w", entry.Name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("romfile: reading %s from archive: %w", entry.Name, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("romfile: %s: no regular files in archive", path)
}
