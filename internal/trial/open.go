package trial

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// File is a Reader over an opened input file.
type File struct {
	*Reader
	closers []func() error
}

// Open opens path for reading. "-" reads standard input. Files ending in
// .gz, .zst or .lz4 are decompressed on the fly.
func Open(path string) (*File, error) {
	var (
		src     io.Reader
		closers []func() error
	)
	if path == "-" {
		src = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening trials %s: %w", path, err)
		}
		src = f
		closers = append(closers, f.Close)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(src)
		if err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
		}
		src = zr
		closers = append(closers, zr.Close)
	case ".zst":
		zr, err := zstd.NewReader(src)
		if err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("opening zstd stream %s: %w", path, err)
		}
		src = zr
		closers = append(closers, func() error { zr.Close(); return nil })
	case ".lz4":
		src = lz4.NewReader(src)
	}

	return &File{Reader: NewReader(src), closers: closers}, nil
}

// Close releases the decompressor and the underlying file.
func (f *File) Close() error {
	return closeAll(f.closers)
}

func closeAll(closers []func() error) error {
	var first error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
