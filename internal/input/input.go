// Package input opens JSON inputs, undoing compression and byte-order marks
// so the flattener always sees UTF-8.
package input

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Stdin is the name that selects standard input.
const Stdin = "-"

// Compression selects how an input is decompressed.
type Compression string

const (
	Auto Compression = "auto"
	None Compression = "none"
	Gzip Compression = "gzip"
	Zstd Compression = "zstd"
	LZ4  Compression = "lz4"
)

var (
	ErrUnknownCompression = errors.New("input: unknown compression")
	ErrOpen               = errors.New("input: cannot open")
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}

	utf8BOM    = []byte{0xef, 0xbb, 0xbf}
	utf16BEBOM = []byte{0xfe, 0xff}
	utf16LEBOM = []byte{0xff, 0xfe}
)

// ParseCompression validates a compression name.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(s)); c {
	case Auto, None, Gzip, Zstd, LZ4:
		return c, nil
	case "":
		return Auto, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

// File is an opened input, decoded to UTF-8.
type File struct {
	io.Reader
	name    string
	counter *countingReader
	closers []func() error
}

// Name returns the name the input was opened with.
func (f *File) Name() string {
	return f.name
}

// BytesRead returns the number of raw bytes consumed from the underlying
// file, before decompression.
func (f *File) BytesRead() int64 {
	return f.counter.n
}

// ReadAll reads the rest of the decoded input.
func (f *File) ReadAll() ([]byte, error) {
	return io.ReadAll(f)
}

// Close releases decoders and the underlying file, innermost last.
func (f *File) Close() error {
	var errs []error
	for i := len(f.closers) - 1; i >= 0; i-- {
		errs = append(errs, f.closers[i]())
	}
	return errors.Join(errs...)
}

// Open opens name, or standard input for "-".
func Open(name string, c Compression) (*File, error) {
	if name == Stdin {
		return NewFile(Stdin, os.Stdin, c)
	}

	fh, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, name, err)
	}

	f, err := NewFile(name, fh, c)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	f.closers = append([]func() error{fh.Close}, f.closers...)
	return f, nil
}

// NewFile wraps r. With Auto, the file extension and then the leading magic
// bytes pick the decompressor. The caller keeps ownership of r.
func NewFile(name string, r io.Reader, c Compression) (*File, error) {
	f := &File{
		name:    name,
		counter: &countingReader{r: r},
	}

	br := bufio.NewReader(f.counter)
	if c == Auto || c == "" {
		c = detect(name, br)
	}

	decompressed, err := f.decompress(br, c)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, name, err)
	}

	f.Reader = decodeBOM(bufio.NewReader(decompressed))
	return f, nil
}

func (f *File) decompress(r io.Reader, c Compression) (io.Reader, error) {
	switch c {
	case None:
		return r, nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		f.closers = append(f.closers, zr.Close)
		return zr, nil
	case Zstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		f.closers = append(f.closers, func() error {
			zr.Close()
			return nil
		})
		return zr, nil
	case LZ4:
		return lz4.NewReader(r), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, c)
	}
}

func detect(name string, br *bufio.Reader) Compression {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	}

	head, _ := br.Peek(4)
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, lz4Magic):
		return LZ4
	default:
		return None
	}
}

// decodeBOM strips a UTF-8 byte-order mark and transcodes UTF-16 input that
// starts with one. Input without a mark is passed through untouched.
func decodeBOM(br *bufio.Reader) io.Reader {
	head, _ := br.Peek(3)
	switch {
	case bytes.HasPrefix(head, utf8BOM):
		_, _ = br.Discard(len(utf8BOM))
		return br
	case bytes.HasPrefix(head, utf16BEBOM), bytes.HasPrefix(head, utf16LEBOM):
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		return transform.NewReader(br, unicode.BOMOverride(dec))
	default:
		return br
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
