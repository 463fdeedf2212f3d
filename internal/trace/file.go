package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/xxh3"
)

// Compression selects how files are stored on disk.
type Compression string

const (
	None Compression = ""
	Gzip Compression = "gz"
	Zstd Compression = "zst"
)

// Extension returns the file name suffix for c,
// including the leading dot, or "" for [None].
func (c Compression) Extension() string {
	if c == None {
		return ""
	}
	return "." + string(c)
}

// Valid reports whether c is a known compression.
func (c Compression) Valid() bool {
	switch c {
	case None, Gzip, Zstd:
		return true
	default:
		return false
	}
}

type layeredFile struct {
	io.Reader
	io.Writer
	layers []io.Closer // Closed in order, innermost first.
}

func (lf *layeredFile) Close() error {
	var errs []error
	for _, layer := range lf.layers {
		errs = append(errs, layer.Close())
	}
	return errors.Join(errs...)
}

// Open opens path for reading.
// Files ending in ".gz" or ".zst" are decompressed transparently.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	reader, err := wrapDecoder(file, path)
	if err != nil {
		return nil, errors.Join(err, file.Close())
	}
	return reader, nil
}

func wrapDecoder(file *os.File, path string) (io.ReadCloser, error) {
	switch Compression(trimDot(filepath.Ext(path))) {
	case Gzip:
		gzipReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("not valid .gz file: %w", err)
		}
		return &layeredFile{
			Reader: gzipReader,
			layers: []io.Closer{gzipReader, file},
		}, nil
	case Zstd:
		zstdReader, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("not valid .zst file: %w", err)
		}
		return &layeredFile{
			Reader: zstdReader,
			layers: []io.Closer{zstdReader.IOReadCloser(), file},
		}, nil
	default:
		return file, nil
	}
}

// Create creates or truncates path for writing.
// The compression is chosen by extension, as with [Open].
// Close must be called to flush compressed output.
func Create(path string) (io.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	switch Compression(trimDot(filepath.Ext(path))) {
	case Gzip:
		gzipWriter := gzip.NewWriter(file)
		return &layeredFile{
			Writer: gzipWriter,
			layers: []io.Closer{gzipWriter, file},
		}, nil
	case Zstd:
		zstdWriter, err := zstd.NewWriter(file)
		if err != nil {
			return nil, errors.Join(
				fmt.Errorf("create zstd encoder: %w", err),
				file.Close(),
			)
		}
		return &layeredFile{
			Writer: zstdWriter,
			layers: []io.Closer{zstdWriter, file},
		}, nil
	default:
		return file, nil
	}
}

// Checksum returns the hexadecimal xxh3 digest of the bytes stored at path.
func Checksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()
	hasher := xxh3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("checksum %s: %w", path, err)
	}
	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func trimDot(extension string) string {
	if len(extension) > 0 && extension[0] == '.' {
		return extension[1:]
	}
	return extension
}
