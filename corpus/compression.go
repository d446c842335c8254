package corpus

import (
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the stream compression of a corpus file.
type CompressionType uint8

const (
	// CompressionNone indicates a plain text file.
	CompressionNone CompressionType = 0
	// CompressionLZ4 indicates an LZ4 frame stream (.lz4).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD indicates a Zstandard stream (.zst).
	CompressionZSTD CompressionType = 2
)

// CompressionFor picks the compression from the file name suffix.
func CompressionFor(name string) CompressionType {
	switch {
	case strings.HasSuffix(name, ".zst"):
		return CompressionZSTD
	case strings.HasSuffix(name, ".lz4"):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Decompress wraps r in a decoder chosen by the suffix of name.
// Closing the result does not close r.
func Decompress(name string, r io.Reader) (io.ReadCloser, error) {
	switch CompressionFor(name) {
	case CompressionZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

// Compress wraps w in an encoder chosen by the suffix of name. The result must
// be closed to flush the stream; closing it does not close w.
func Compress(name string, w io.Writer) (io.WriteCloser, error) {
	switch CompressionFor(name) {
	case CompressionZSTD:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		return enc, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
