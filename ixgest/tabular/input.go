package tabular

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/genealogy"
)

// Stdio is the path that selects standard input or standard output.
const Stdio = "-"

// Compression is inferred from the file extension.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
)

// DetectCompression maps .gz to gzip and .zst / .zstd to zstd.
func DetectCompression(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// closeChain runs its closers in order and returns the first error.
type closeChain []func() error

func (c closeChain) Close() error {
	var first error
	for _, fn := range c {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// compositeCloser closes the decoder and then the underlying file.
type compositeCloser struct {
	io.Reader
	closeChain
}

// OpenInput opens path for reading, decompressing gzip and zstd files
// transparently. "-" reads standard input uncompressed.
func OpenInput(path string) (io.ReadCloser, error) {
	if path == Stdio {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}

	switch DetectCompression(path) {
	case CompressionGzip:
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "failed to read gzip header of %s", path)
		}
		return compositeCloser{Reader: gzr, closeChain: closeChain{gzr.Close, f.Close}}, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "failed to open zstd stream %s", path)
		}
		return compositeCloser{Reader: dec, closeChain: closeChain{
			func() error { dec.Close(); return nil },
			f.Close,
		}}, nil
	default:
		return f, nil
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// writeCloser flushes the encoder before closing the file.
type writeCloser struct {
	io.Writer
	closeChain
}

// CreateOutput creates path for writing, compressing by extension the same
// way OpenInput decompresses. "-" writes to standard output.
func CreateOutput(path string) (io.WriteCloser, error) {
	if path == Stdio {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", path)
	}

	switch DetectCompression(path) {
	case CompressionGzip:
		gzw := gzip.NewWriter(f)
		return writeCloser{Writer: gzw, closeChain: closeChain{gzw.Close, f.Close}}, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "failed to start zstd stream %s", path)
		}
		return writeCloser{Writer: enc, closeChain: closeChain{enc.Close, f.Close}}, nil
	default:
		return f, nil
	}
}

// ReadRowsFile reads a population from path. See OpenInput and ReadRows.
func ReadRowsFile(path string, opts Options) ([]genealogy.Row, []genealogy.Warning, error) {
	in, err := OpenInput(path)
	if err != nil {
		return nil, nil, err
	}
	defer in.Close()

	rows, warnings, err := ReadRows(in, opts)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read %s", path)
	}
	return rows, warnings, nil
}

// WriteRowsFile writes rows to path. See CreateOutput and WriteRows.
func WriteRowsFile(path string, rows []genealogy.Row, opts Options) error {
	out, err := CreateOutput(path)
	if err != nil {
		return err
	}
	if err := WriteRows(out, rows, opts); err != nil {
		out.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrapf(out.Close(), "close %s", path)
}

// ReadIDsFile reads an identifier list from path. See ReadIDs.
func ReadIDsFile(path string) ([]genealogy.ID, error) {
	in, err := OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	ids, err := ReadIDs(in)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return ids, nil
}
