package data

import (
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding is the text encoding an input file is written in.
type Encoding int

const (
	// UTF8 input may start with a byte-order mark, which is dropped.
	UTF8 Encoding = iota
	// ShiftJIS covers Windows code page 932, used by the irradiance archive.
	ShiftJIS
)

type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens path for reading. Files ending in .gz or .zst are decompressed
// on the fly.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := pgzip.NewReaderN(f, 256*1024, runtime.NumCPU())
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{Reader: gz, closers: []func() error{f.Close, gz.Close}}, nil
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{Reader: zr, closers: []func() error{f.Close, func() error {
			zr.Close()
			return nil
		}}}, nil
	default:
		return f, nil
	}
}

// Decode wraps r so it yields UTF-8 text.
func Decode(r io.Reader, enc Encoding) io.Reader {
	switch enc {
	case ShiftJIS:
		return transform.NewReader(r, japanese.ShiftJIS.NewDecoder())
	default:
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	}
}

// OpenText opens path, decompresses it if needed and decodes it to UTF-8.
func OpenText(path string, enc Encoding) (io.Reader, func() error, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	return Decode(rc, enc), rc.Close, nil
}
