package pfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// decompressBufSize is the read-ahead used in front of a decompressor.
const decompressBufSize = 1 << 20

// File is an opened input. Reads return the decompressed content when the
// file name carries a known compression extension.
type File struct {
	io.Reader
	file   *os.File
	closer func() error
}

// Open opens filename for a single sequential pass.
func Open(filename string) (*File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	// advisory only
	_ = adviseSequential(f)

	p := &File{Reader: f, file: f}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz":
		zr, err := gzip.NewReader(bufio.NewReaderSize(f, decompressBufSize))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		p.Reader = zr
		p.closer = zr.Close
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(bufio.NewReaderSize(f, decompressBufSize))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		rc := zr.IOReadCloser()
		p.Reader = rc
		p.closer = rc.Close
	}
	return p, nil
}

func (p *File) Close() error {
	var errs []error
	if p.closer != nil {
		errs = append(errs, p.closer())
	}
	errs = append(errs, p.file.Close())
	return errors.Join(errs...)
}
