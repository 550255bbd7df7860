package compress

import (
	"fmt"
	"time"

	"github.com/Tan-0321/HOSHI-WorkFlow/errs"
	"github.com/Tan-0321/HOSHI-WorkFlow/format"
)

// Compressor compresses a complete payload, such as an encoded combined-series
// cache file.
type Compressor interface {
	// Compress returns the compressed form of data.
	//
	// The input slice is not modified. The result is owned by the caller, except
	// for the no-op codec which returns data itself.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm.
//
// Example:
//
//	codec, _ := compress.GetCodec(format.CompressionZstd)
//	text, err := codec.Decompress(raw)
//	if err != nil {
//	    return fmt.Errorf("decompress cache: %w", err)
//	}
type Decompressor interface {
	// Decompress returns the original payload. Corrupted input, or input
	// written by another algorithm, fails with an error.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes one compression of a payload.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the size of input data before compression
	OriginalSize int64

	// CompressedSize is the size of data after compression
	CompressedSize int64

	// CompressionTimeNs is the time taken to compress the data
	CompressionTimeNs int64

	// DecompressionTimeNs is the time taken to decompress the data, if measured
	DecompressionTimeNs int64
}

// CompressionRatio returns compressed size / original size, or 0 for an empty input.
//
// Values below 1.0 indicate the payload shrank.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage.
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec creates a new Codec for the compression type.
//
// target describes what the codec is used for and only appears in errors.
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: invalid %s compression: %s", errs.ErrUnsupportedCompression, target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a shared built-in Codec for the compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

// CompressWithStats compresses data with the built-in codec for compressionType
// and reports the sizes and elapsed time.
func CompressWithStats(compressionType format.CompressionType, data []byte) ([]byte, CompressionStats, error) {
	stats := CompressionStats{
		Algorithm:    compressionType,
		OriginalSize: int64(len(data)),
	}

	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, stats, err
	}

	start := time.Now()
	out, err := codec.Compress(data)
	stats.CompressionTimeNs = time.Since(start).Nanoseconds()
	if err != nil {
		return nil, stats, fmt.Errorf("%s compression failed: %w", compressionType, err)
	}
	stats.CompressedSize = int64(len(out))

	return out, stats, nil
}

// DecompressWithStats is the inverse of CompressWithStats.
func DecompressWithStats(compressionType format.CompressionType, data []byte) ([]byte, CompressionStats, error) {
	stats := CompressionStats{
		Algorithm:      compressionType,
		CompressedSize: int64(len(data)),
	}

	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, stats, err
	}

	start := time.Now()
	out, err := codec.Decompress(data)
	stats.DecompressionTimeNs = time.Since(start).Nanoseconds()
	if err != nil {
		return nil, stats, fmt.Errorf("%s decompression failed: %w", compressionType, err)
	}
	stats.OriginalSize = int64(len(out))

	return out, stats, nil
}
